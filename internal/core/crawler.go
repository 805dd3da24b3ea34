package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/ImgFindcrack/internal/models"
	"github.com/RecoveryAshes/ImgFindcrack/internal/utils"
	"github.com/RecoveryAshes/ImgFindcrack/internal/webclient"
)

// Crawler 主爬取器协调器
// 整个流程严格串行: 逐页加载、逐张下载,页面或图片失败只记录不中断
type Crawler struct {
	task        *models.CrawlTask
	config      models.CrawlConfig
	downloadDir string

	// HTTP头部提供者
	headerProvider models.HeaderProvider

	// 页面与图片获取器
	fetcher *webclient.Fetcher

	// 事件接收器 (页面进度与图片落盘通知)
	sink models.EventSink

	// 磁盘空间检查器
	diskGuard *DiskGuard

	// 累积结果
	stats        models.TaskStats
	pages        []models.PageOutcome
	savedImages  []*models.ImageFile
	failedImages []models.FailedImage
}

// NewCrawler 创建主爬取器
// 目标URL和配置在此处完成验证,下载目录按域名分目录
func NewCrawler(targetURL string, config models.CrawlConfig, outputDir string, headerProvider models.HeaderProvider, sink models.EventSink) (*Crawler, error) {
	task, err := models.NewCrawlTask(targetURL, config)
	if err != nil {
		return nil, err
	}

	if sink == nil {
		sink = models.NopSink{}
	}

	timeout := time.Duration(config.WaitTime) * time.Second
	if config.WaitTime <= 0 {
		timeout = 15 * time.Second
	}

	return &Crawler{
		task:           task,
		config:         config,
		downloadDir:    filepath.Join(outputDir, task.Domain),
		headerProvider: headerProvider,
		fetcher:        webclient.NewFetcher(timeout, headerProvider),
		sink:           sink,
		diskGuard:      NewDiskGuard(config.MinFreeDisk),
		stats:          models.TaskStats{},
	}, nil
}

// Crawl 执行爬取任务
// 执行流程:
//  1. 创建下载目录 (唯一的致命错误: 失败则整个任务终止)
//  2. 展开页面URL列表并逐页处理
//  3. 生成爬取报告
//
// 上下文取消在页面之间和图片之间生效,已落盘的图片保留
func (c *Crawler) Crawl(ctx context.Context) (*models.CrawlResult, error) {
	startTime := time.Now()
	now := time.Now()
	c.task.StartedAt = &now
	c.task.Status = models.TaskStatusRunning

	utils.Infof("🚀 开始爬取任务")
	utils.Infof("目标URL: %s", c.task.TargetURL)
	utils.Infof("域名: %s", c.task.Domain)
	utils.Infof("下载目录: %s", c.downloadDir)

	// 创建下载目录
	if err := os.MkdirAll(c.downloadDir, 0755); err != nil {
		c.task.Status = models.TaskStatusFailed
		c.task.ErrorMessage = err.Error()
		return nil, fmt.Errorf("创建下载目录失败 [%s]: %w", c.downloadDir, err)
	}

	// 磁盘空间预检 (只告警不中断)
	c.diskGuard.WarnIfLow(c.downloadDir)

	// 展开页面URL列表 (基础URL + 模板替换)
	pageURLs := c.config.PageURLs(c.task.TargetURL)
	c.emitStatus(fmt.Sprintf("共 %d 个页面待处理", len(pageURLs)))

	for i, pageURL := range pageURLs {
		// 页面之间响应取消
		if ctx.Err() != nil {
			c.task.Status = models.TaskStatusCancelled
			utils.Warn("任务被取消,停止处理后续页面")
			break
		}

		c.crawlPage(ctx, i, len(pageURLs), pageURL)
	}

	c.stats.Duration = time.Since(startTime).Seconds()
	c.task.Stats = c.stats
	doneAt := time.Now()
	c.task.CompletedAt = &doneAt
	if c.task.Status == models.TaskStatusRunning {
		c.task.Status = models.TaskStatusCompleted
	}

	// 生成爬取报告
	reporter := utils.NewReporter(c.downloadDir, c.task.Domain)
	if err := reporter.GenerateReport(c.task, c.pages, c.savedImages, c.failedImages); err != nil {
		utils.Warnf("生成报告失败: %v", err)
	}

	utils.Infof("✅ 爬取任务完成")
	utils.Infof("处理页面: %d (失败 %d, 无可下载 %d)", c.stats.TotalPages, c.stats.FailedPages, c.stats.EmptyPages)
	utils.Infof("下载图片: %d (失败 %d)", c.stats.TotalDownloaded, c.stats.FailedImages)
	utils.Infof("总耗时: %.2f秒", c.stats.Duration)

	result := &models.CrawlResult{
		TotalDownloaded: c.stats.TotalDownloaded,
		Pages:           c.pages,
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// crawlPage 处理单个页面: 加载、提取、跳过窗口、逐张下载
func (c *Crawler) crawlPage(ctx context.Context, pageIndex int, totalPages int, pageURL string) {
	c.stats.TotalPages++
	outcome := models.PageOutcome{
		PageIndex: pageIndex,
		URL:       pageURL,
		Attempted: true,
	}
	defer func() {
		c.pages = append(c.pages, outcome)
	}()

	c.emitStatus(fmt.Sprintf("📄 正在处理页面 [%d/%d]: %s", pageIndex+1, totalPages, pageURL))

	htmlContent, err := c.fetcher.FetchText(ctx, pageURL)
	if err != nil {
		c.stats.FailedPages++
		utils.Errorf("❌ 页面加载失败 [%s]: %v", pageURL, err)
		c.emitStatus(fmt.Sprintf("页面加载失败: %s", pageURL))
		return
	}

	// 提取img引用并先解析为绝对URL,再去重排序
	// 同一地址的不同写法 (相对/根相对/绝对) 在解析后合并为一份,
	// 跳过窗口作用于绝对URL的字典序
	resolved := webclient.NewRefSet()
	for _, ref := range webclient.ExtractImageRefs(htmlContent).Sorted() {
		resolved.Add(webclient.Resolve(pageURL, ref))
	}
	refs := resolved.Sorted()
	c.emitStatus(fmt.Sprintf("找到 %d 张图片", len(refs)))

	if len(refs) == 0 {
		c.stats.EmptyPages++
		c.emitStatus("页面未发现图片")
		return
	}

	// 跳过窗口: 去掉排序后的前SkipFirst张和后SkipLast张
	if c.config.SkipFirst+c.config.SkipLast >= len(refs) {
		c.stats.EmptyPages++
		utils.Infof("页面无可下载图片 (共%d张, 跳过前%d后%d)", len(refs), c.config.SkipFirst, c.config.SkipLast)
		return
	}
	window := refs[c.config.SkipFirst : len(refs)-c.config.SkipLast]

	bar := utils.NewProgressBar(len(window), "📥 下载图片")

	for _, absURL := range window {
		// 图片之间响应取消
		if ctx.Err() != nil {
			utils.Warn("任务被取消,停止下载剩余图片")
			return
		}

		if c.downloadImage(ctx, pageIndex, pageURL, absURL) {
			outcome.Succeeded++
		}
		bar.Add(1)
	}
}

// downloadImage 下载单张图片 (已是绝对URL),返回是否成功
// 失败只记录并继续处理下一张
func (c *Crawler) downloadImage(ctx context.Context, pageIndex int, pageURL string, absoluteURL string) bool {
	filename := webclient.FilenameForURL(absoluteURL)
	dest := webclient.UniquePath(filepath.Join(c.downloadDir, filename))

	written, err := c.fetcher.FetchToFile(ctx, absoluteURL, dest)
	if err != nil {
		c.stats.FailedImages++
		c.failedImages = append(c.failedImages, models.FailedImage{
			URL:       absoluteURL,
			SourceURL: pageURL,
			ErrorMsg:  err.Error(),
		})
		utils.Warnf("❌ 图片下载失败 [%s]: %v", absoluteURL, err)
		return false
	}

	c.stats.TotalDownloaded++
	c.stats.TotalSize += written

	c.savedImages = append(c.savedImages, models.NewImageFile(absoluteURL, dest, written, pageURL, pageIndex))

	c.sink.OnImageSaved(dest)
	utils.Debugf("📥 已保存: %s (%d字节)", dest, written)
	return true
}

// emitStatus 同时写日志和通知事件接收器
func (c *Crawler) emitStatus(message string) {
	utils.Info(message)
	c.sink.OnStatus(message)
}

// GetStats 获取统计信息
func (c *Crawler) GetStats() models.TaskStats {
	return c.stats
}

// GetTask 获取任务信息
func (c *Crawler) GetTask() *models.CrawlTask {
	return c.task
}

// GetDownloadDir 获取下载目录路径
func (c *Crawler) GetDownloadDir() string {
	return c.downloadDir
}
