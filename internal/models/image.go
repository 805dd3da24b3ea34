package models

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"
)

const (
	// MaxImageSize 最大图片大小 100MB
	MaxImageSize = 100 * 1024 * 1024

	// FallbackImageExt 无法从URL推断扩展名时使用的兜底扩展名
	FallbackImageExt = ".jpg"
)

// ImageFileExtensions 常见的图片文件扩展名
var ImageFileExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}

// ImageFile 已下载的图片文件
type ImageFile struct {
	// 标识信息
	ID       string `json:"id"`        // 文件唯一ID
	URL      string `json:"url"`       // 图片绝对URL
	FilePath string `json:"file_path"` // 本地存储路径 (碰撞安全命名后的最终路径)

	// 元数据
	Size      int64  `json:"size"`      // 文件大小(字节)
	Extension string `json:"extension"` // 文件扩展名

	// 来源信息
	SourceURL string `json:"source_url"` // 发现该图片的页面URL
	PageIndex int    `json:"page_index"` // 页面序号

	// 时间戳
	DownloadedAt time.Time `json:"downloaded_at"` // 下载时间
}

// NewImageFile 创建已下载图片记录
func NewImageFile(imageURL, filePath string, size int64, sourceURL string, pageIndex int) *ImageFile {
	return &ImageFile{
		ID:           generateID(),
		URL:          imageURL,
		FilePath:     filePath,
		Size:         size,
		Extension:    filepath.Ext(filePath),
		SourceURL:    sourceURL,
		PageIndex:    pageIndex,
		DownloadedAt: time.Now(),
	}
}

// IsKnownExtension 检查扩展名是否为已知图片格式
func (f *ImageFile) IsKnownExtension() bool {
	for _, ext := range ImageFileExtensions {
		if f.Extension == ext {
			return true
		}
	}
	return false
}

// ValidateSize 验证文件大小
func (f *ImageFile) ValidateSize() error {
	if f.Size <= 0 {
		return fmt.Errorf("文件大小必须大于0")
	}
	if f.Size > MaxImageSize {
		return fmt.Errorf("文件大小超过限制: %d > %d", f.Size, MaxImageSize)
	}
	return nil
}

// ToJSON 序列化为JSON
func (f *ImageFile) ToJSON() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// FailedImage 下载失败的图片
type FailedImage struct {
	URL       string `json:"url"`        // 图片URL
	SourceURL string `json:"source_url"` // 来源页面URL
	ErrorMsg  string `json:"error_msg"`  // 失败原因 (网络错误与HTTP错误统一报告)
}
