package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/ImgFindcrack/internal/core"
	"github.com/RecoveryAshes/ImgFindcrack/internal/models"
	"github.com/RecoveryAshes/ImgFindcrack/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 验证配置文件

	// 爬取参数
	targetURL    string
	urlFile      string
	replaceStr   string
	replacements []string
	skipFirst    int
	skipLast     int
	waitTime     int
	outputDir    string

	// 批量处理参数
	batchDelay      int
	continueOnError bool
)

var rootCmd = &cobra.Command{
	Use:   "imgfindcrack",
	Short: "网页图片批量爬取工具",
	Long: `ImgFindcrack - 网页图片批量爬取工具 (Go版本)

这是一个专门用于从网页批量下载图片的工具,支持:
  • URL模板展开 (占位子串批量替换,一次爬取多个页面)
  • 相对图片地址自动补全 (协议相对/根相对/路径相对)
  • 同页去重与排序,跳过页头页尾的广告图
  • 文件名冲突自动编号,不覆盖已有文件
  • 批量URL处理
  • 自定义HTTP请求头

使用示例:
  # 爬取单个页面
  imgfindcrack -u https://example.com/gallery/page1.html

  # 模板展开: 用2、3依次替换URL中的"1",共爬取3个页面
  imgfindcrack -u https://example.com/gallery/page1.html --replace-str 1 --replacements 2,3

  # 附带登录态
  imgfindcrack -u https://example.com -H "Cookie: session=abc123"

  # 验证配置文件
  imgfindcrack --validate-config

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 初始化日志系统
		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 信号处理(Ctrl+C优雅退出): 取消上下文,让爬取循环在安全点停止
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 重新加载配置(从PersistentPreRunE中获取)
		appConfig, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 创建HTTP头部管理器
		headerManager, err := core.NewHeaderManager(configFile, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}

		// 如果用户请求验证配置
		if validateConfig {
			utils.Info("🔍 验证HTTP头部配置...")
			if err := headerManager.LoadConfig(); err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}
			if err := headerManager.Validate(); err != nil {
				return fmt.Errorf("配置验证失败: %w", err)
			}

			// 显示合并后的头部(脱敏)
			safeHeaders := headerManager.GetSafeHeaders()
			utils.Info("✅ 配置验证通过!")
			utils.Infof("当前有效的HTTP头部 (%d个):", len(safeHeaders))
			for name, value := range safeHeaders {
				utils.Infof("  %s: %s", name, value)
			}
			return nil
		}

		// 如果没有提供任何参数,显示帮助信息
		if targetURL == "" && urlFile == "" {
			return cmd.Help()
		}

		// 验证参数
		if err := ValidateFlags(targetURL, skipFirst, skipLast, waitTime, replaceStr, replacements); err != nil {
			return err
		}

		// 合并命令行参数到配置 (未显式指定的标志保留配置文件的值)
		mergeFlag := func(name string, value int) int {
			if cmd.Flags().Changed(name) {
				return value
			}
			return -1
		}
		appConfig.MergeCLIFlags(
			mergeFlag("skip-first", skipFirst),
			mergeFlag("skip-last", skipLast),
			waitTime,
			replaceStr,
			replacements,
		)
		crawlConfig := appConfig.GetCrawlConfig()

		// 命令行未指定-o时使用配置文件的output.base_dir
		if outputDir == "" {
			outputDir = appConfig.Output.BaseDir
		}

		// 检查是否为批量处理模式
		if urlFile != "" {
			// 批量处理模式
			urls, err := utils.ReadURLsFromFile(urlFile)
			if err != nil {
				return fmt.Errorf("读取URL文件失败: %w", err)
			}

			// 创建批量爬取器
			batchCrawler := core.NewBatchCrawler(crawlConfig, outputDir, batchDelay, continueOnError, headerManager, models.NopSink{})

			// 执行批量爬取
			if _, err := batchCrawler.CrawlBatch(ctx, urls); err != nil {
				return fmt.Errorf("批量爬取失败: %w", err)
			}

			utils.Info("✨ 批量爬取任务完成!")
			return nil
		}

		// 单URL爬取模式
		crawler, err := core.NewCrawler(targetURL, crawlConfig, outputDir, headerManager, models.NopSink{})
		if err != nil {
			return fmt.Errorf("创建爬取器失败: %w", err)
		}

		// 执行爬取
		result, err := crawler.Crawl(ctx)
		if err != nil && result == nil {
			return fmt.Errorf("爬取失败: %w", err)
		}

		// 显示统计结果
		stats := crawler.GetStats()
		fmt.Println("\n==================================================")
		fmt.Println("📊 爬取统计")
		fmt.Println("==================================================")
		fmt.Printf("✅ 处理页面数: %d\n", stats.TotalPages)
		fmt.Printf("❌ 加载失败页面: %d\n", stats.FailedPages)
		fmt.Printf("⏭️  无可下载页面: %d\n", stats.EmptyPages)
		fmt.Printf("✅ 下载图片数: %d\n", stats.TotalDownloaded)
		fmt.Printf("❌ 失败图片数: %d\n", stats.FailedImages)
		fmt.Printf("📦 总大小: %.2f MB\n", float64(stats.TotalSize)/(1024*1024))
		fmt.Printf("⏱️  总耗时: %.2f秒\n", stats.Duration)
		fmt.Println("==================================================")

		if err != nil {
			utils.Warnf("任务提前结束: %v", err)
			return nil
		}

		utils.Info("✨ 爬取任务完成!")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ImgFindcrack %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
		fmt.Println("Go实现版本 - 网页图片批量爬取工具")
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件正确性")

	// 爬取参数
	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "目标URL (必需,除非使用 --url-file)")
	rootCmd.Flags().StringVarP(&urlFile, "url-file", "f", "", "包含URL列表的文件路径")
	rootCmd.Flags().StringVar(&replaceStr, "replace-str", "", "URL模板占位子串")
	rootCmd.Flags().StringSliceVar(&replacements, "replacements", []string{}, "占位子串的替换值列表,逗号分隔")
	rootCmd.Flags().IntVar(&skipFirst, "skip-first", 0, "跳过排序后的前N张图片")
	rootCmd.Flags().IntVar(&skipLast, "skip-last", 9, "跳过排序后的后N张图片")
	rootCmd.Flags().IntVarP(&waitTime, "wait", "w", 0, "单次HTTP请求超时(秒),0表示使用配置文件的值")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "下载目录 (默认使用配置文件的output.base_dir)")

	// 批量处理参数
	rootCmd.Flags().IntVar(&batchDelay, "batch-delay", 1, "批量处理URL间延迟(秒)")
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", true, "遇到错误继续处理")

	// 添加子命令
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
