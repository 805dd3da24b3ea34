package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/ImgFindcrack/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 报告生成器
type Reporter struct {
	downloadDir string
	domain      string
}

// NewReporter 创建报告生成器
func NewReporter(downloadDir string, domain string) *Reporter {
	return &Reporter{
		downloadDir: downloadDir,
		domain:      domain,
	}
}

// GenerateReport 生成爬取报告
func (r *Reporter) GenerateReport(
	task *models.CrawlTask,
	pages []models.PageOutcome,
	savedImages []*models.ImageFile,
	failedImages []models.FailedImage,
) error {
	reportsDir := filepath.Join(r.downloadDir, "reports")
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	// 转换成功图片列表
	imageInfos := make([]models.ImageInfo, 0, len(savedImages))
	for _, img := range savedImages {
		imageInfos = append(imageInfos, models.ImageInfo{
			URL:          img.URL,
			FilePath:     img.FilePath,
			Size:         img.Size,
			SourceURL:    img.SourceURL,
			DownloadedAt: img.DownloadedAt,
		})
	}

	// 创建爬取报告
	crawlReport := models.CrawlReport{
		TaskID:       task.ID,
		TargetURL:    task.TargetURL,
		Domain:       r.domain,
		StartTime:    time.Now().Add(-time.Duration(task.Stats.Duration) * time.Second),
		EndTime:      time.Now(),
		Duration:     task.Stats.Duration,
		Stats:        task.Stats,
		Pages:        pages,
		SavedImages:  imageInfos,
		FailedImages: failedImages,
		DownloadDir:  r.downloadDir,
		Config:       task.Config,
	}

	// 保存主报告
	if err := r.saveJSONReport(reportsDir, "crawl_report.json", crawlReport); err != nil {
		return err
	}

	// 保存成功图片列表
	if err := r.saveJSONReport(reportsDir, "saved_images.json", imageInfos); err != nil {
		return err
	}

	// 保存失败图片列表
	if err := r.saveJSONReport(reportsDir, "failed_images.json", failedImages); err != nil {
		return err
	}

	Infof("✅ 报告已生成: %s", reportsDir)
	return nil
}

// saveJSONReport 保存JSON报告
func (r *Reporter) saveJSONReport(dir string, filename string, data interface{}) error {
	filepath := filepath.Join(dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", filepath)
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
