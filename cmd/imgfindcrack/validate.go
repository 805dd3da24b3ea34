package main

import (
	"fmt"
	"net/url"

	"github.com/RecoveryAshes/ImgFindcrack/internal/models"
)

// ValidateURL 验证URL格式
func ValidateURL(urlStr string) error {
	return models.ValidateURL(urlStr)
}

// ValidateFlags 验证命令行标志
func ValidateFlags(
	targetURL string,
	skipFirst int,
	skipLast int,
	waitTime int,
	replaceStr string,
	replacements []string,
) error {
	// 验证URL
	if targetURL != "" {
		if err := ValidateURL(targetURL); err != nil {
			return fmt.Errorf("无效的目标URL: %w", err)
		}
	}

	// 验证跳过数量
	if skipFirst < 0 {
		return fmt.Errorf("skip-first不能为负数,当前值: %d", skipFirst)
	}
	if skipLast < 0 {
		return fmt.Errorf("skip-last不能为负数,当前值: %d", skipLast)
	}

	// 验证等待时间
	if waitTime < 0 || waitTime > 300 {
		return fmt.Errorf("等待时间必须在0-300秒之间,当前值: %d", waitTime)
	}

	// 验证模板参数
	if replaceStr == "" && len(replacements) > 0 {
		return fmt.Errorf("指定了--replacements但缺少--replace-str占位子串")
	}

	return nil
}

// ValidateURLFile 验证URL文件路径
func ValidateURLFile(filepath string) error {
	if filepath == "" {
		return fmt.Errorf("URL文件路径不能为空")
	}
	// 文件存在性检查将在运行时进行
	return nil
}

// NormalizeURL 规范化URL
func NormalizeURL(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	// 如果没有协议,默认使用https
	if parsed.Scheme == "" {
		urlStr = "https://" + urlStr
		parsed, err = url.Parse(urlStr)
		if err != nil {
			return "", err
		}
	}

	return parsed.String(), nil
}
