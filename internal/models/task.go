package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"   // 待执行
	TaskStatusRunning   TaskStatus = "running"   // 执行中
	TaskStatusCompleted TaskStatus = "completed" // 已完成
	TaskStatusFailed    TaskStatus = "failed"    // 失败
	TaskStatusCancelled TaskStatus = "cancelled" // 已取消
)

// TaskStats 任务统计
type TaskStats struct {
	TotalPages      int     `json:"total_pages"`      // 处理页面总数
	FailedPages     int     `json:"failed_pages"`     // 加载失败页面数
	EmptyPages      int     `json:"empty_pages"`      // 无图片或不足以跳过的页面数
	TotalDownloaded int     `json:"total_downloaded"` // 成功下载图片数
	FailedImages    int     `json:"failed_images"`    // 下载失败图片数
	TotalSize       int64   `json:"total_size"`       // 总大小(字节)
	Duration        float64 `json:"duration"`         // 总耗时(秒)
}

// CrawlConfig 爬取配置
type CrawlConfig struct {
	SkipFirst    int      `json:"skip_first" mapstructure:"skip_first"`       // 跳过排序后的前N张图片 (默认:0)
	SkipLast     int      `json:"skip_last" mapstructure:"skip_last"`         // 跳过排序后的后N张图片 (默认:9)
	ReplaceStr   string   `json:"replace_str" mapstructure:"replace_str"`     // URL模板占位子串 (可选)
	Replacements []string `json:"replacements" mapstructure:"replacements"`   // 占位子串的替换值列表 (可选)
	WaitTime     int      `json:"wait_time" mapstructure:"wait_time"`         // 单次HTTP请求超时(秒) (默认:15)
	MinFreeDisk  int      `json:"min_free_disk" mapstructure:"min_free_disk"` // 下载目录剩余空间告警阈值(MB) (默认:200)
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if c.SkipFirst < 0 {
		return fmt.Errorf("skip-first不能为负数,当前值: %d", c.SkipFirst)
	}
	if c.SkipLast < 0 {
		return fmt.Errorf("skip-last不能为负数,当前值: %d", c.SkipLast)
	}
	if c.WaitTime < 0 || c.WaitTime > 300 {
		return fmt.Errorf("等待时间必须在0-300秒之间,当前值: %d", c.WaitTime)
	}
	if c.ReplaceStr == "" && len(c.Replacements) > 0 {
		return fmt.Errorf("指定了replacements但缺少replace-str占位子串")
	}
	return nil
}

// PageURLs 根据模板展开待爬页面列表
// 基础URL始终排在第一位;仅当占位子串和替换值同时存在时才展开,
// 每个替换值替换基础URL中占位子串的首次出现
func (c *CrawlConfig) PageURLs(targetURL string) []string {
	pages := []string{targetURL}

	if c.ReplaceStr == "" || len(c.Replacements) == 0 {
		return pages
	}

	for _, rep := range c.Replacements {
		pages = append(pages, strings.Replace(targetURL, c.ReplaceStr, rep, 1))
	}
	return pages
}

// PageOutcome 单页处理结果
type PageOutcome struct {
	PageIndex int    `json:"page_index"` // 页面序号 (从0开始)
	URL       string `json:"url"`        // 页面URL
	Attempted bool   `json:"attempted"`  // 是否尝试加载
	Succeeded int    `json:"succeeded"`  // 该页成功下载图片数
}

// CrawlResult 爬取结果
// 整个运行过程累积,运行结束后返回给调用方
type CrawlResult struct {
	TotalDownloaded int           `json:"total_downloaded"` // 全部页面成功下载总数
	Pages           []PageOutcome `json:"pages"`            // 按页面顺序的处理结果
}

// CrawlTask 爬取任务
type CrawlTask struct {
	// 基本信息
	ID          string     `json:"id"`                     // 任务唯一ID (UUID)
	TargetURL   string     `json:"target_url"`             // 目标URL
	Domain      string     `json:"domain"`                 // 解析的域名
	CreatedAt   time.Time  `json:"created_at"`             // 创建时间
	StartedAt   *time.Time `json:"started_at,omitempty"`   // 开始时间
	CompletedAt *time.Time `json:"completed_at,omitempty"` // 完成时间

	// 配置参数
	Config CrawlConfig `json:"config"` // 爬取配置

	// 执行状态
	Status TaskStatus `json:"status"` // 任务状态

	// 统计信息
	Stats TaskStats `json:"stats"` // 任务统计

	// 错误信息
	ErrorMessage string `json:"error_message,omitempty"` // 错误消息
}

// NewCrawlTask 创建新任务
func NewCrawlTask(targetURL string, config CrawlConfig) (*CrawlTask, error) {
	if err := ValidateURL(targetURL); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	parsed, _ := url.Parse(targetURL)
	domain := parsed.Host

	return &CrawlTask{
		ID:        generateID(),
		TargetURL: targetURL,
		Domain:    domain,
		CreatedAt: time.Now(),
		Config:    config,
		Status:    TaskStatusPending,
		Stats:     TaskStats{},
	}, nil
}

// ToJSON 序列化为JSON
func (t *CrawlTask) ToJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// FromJSON 从JSON反序列化
func (t *CrawlTask) FromJSON(data []byte) error {
	return json.Unmarshal(data, t)
}
