package models

import (
	"encoding/json"
	"time"
)

// CrawlReport 爬取报告
type CrawlReport struct {
	// 任务信息
	TaskID    string `json:"task_id"`
	TargetURL string `json:"target_url"`
	Domain    string `json:"domain"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 统计信息
	Stats TaskStats `json:"stats"`

	// 页面处理结果
	Pages []PageOutcome `json:"pages"`

	// 文件列表
	SavedImages  []ImageInfo   `json:"saved_images"`  // 成功下载的图片
	FailedImages []FailedImage `json:"failed_images"` // 失败图片

	// 输出路径
	DownloadDir string `json:"download_dir"` // 下载目录

	// 配置快照
	Config CrawlConfig `json:"config"`
}

// ImageInfo 图片信息
type ImageInfo struct {
	URL          string    `json:"url"`
	FilePath     string    `json:"file_path"`
	Size         int64     `json:"size"`
	SourceURL    string    `json:"source_url"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// ToJSON 序列化为JSON
func (r *CrawlReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *CrawlReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
