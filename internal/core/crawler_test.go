package core

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RecoveryAshes/ImgFindcrack/internal/models"
)

// imgPage 生成包含n张图片的页面HTML,图片名为 img00.jpg ... imgNN.jpg
// 两位数字编号保证字典序与数字序一致
func imgPage(n int) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<img src="/img/img%02d.jpg">`, i)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// newGalleryServer 构造测试站点: /pageN 返回含imageCounts[N]张图片的页面
func newGalleryServer(t *testing.T, imageCounts map[string]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/img/") {
			w.Write([]byte("image-data-" + r.URL.Path))
			return
		}
		count, ok := imageCounts[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(imgPage(count)))
	}))
}

func TestCrawler_跳过窗口(t *testing.T) {
	tests := []struct {
		name       string
		imageCount int
		skipFirst  int
		skipLast   int
		wantSaved  int
	}{
		{"跳过后全部覆盖则不下载", 12, 3, 9, 0},
		{"正常窗口", 15, 2, 3, 10},
		{"不跳过则全部下载", 5, 0, 0, 5},
		{"跳过数量等于图片数", 4, 2, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newGalleryServer(t, map[string]int{"/page1": tt.imageCount})
			defer server.Close()

			outputDir := t.TempDir()
			config := models.CrawlConfig{
				SkipFirst: tt.skipFirst,
				SkipLast:  tt.skipLast,
				WaitTime:  10,
			}

			crawler, err := NewCrawler(server.URL+"/page1", config, outputDir, nil, nil)
			if err != nil {
				t.Fatalf("NewCrawler() error = %v", err)
			}

			result, err := crawler.Crawl(context.Background())
			if err != nil {
				t.Fatalf("Crawl() error = %v", err)
			}

			if result.TotalDownloaded != tt.wantSaved {
				t.Errorf("TotalDownloaded = %d, want %d", result.TotalDownloaded, tt.wantSaved)
			}

			// 核对落盘文件数
			entries, err := os.ReadDir(crawler.GetDownloadDir())
			if err != nil {
				t.Fatalf("读取下载目录失败: %v", err)
			}
			files := 0
			for _, e := range entries {
				if !e.IsDir() {
					files++
				}
			}
			if files != tt.wantSaved {
				t.Errorf("下载目录文件数 = %d, want %d", files, tt.wantSaved)
			}
		})
	}
}

func TestCrawler_跳过窗口取中间段(t *testing.T) {
	// 10张图片跳过前2后3,应保留img02..img06
	server := newGalleryServer(t, map[string]int{"/page1": 10})
	defer server.Close()

	outputDir := t.TempDir()
	config := models.CrawlConfig{SkipFirst: 2, SkipLast: 3, WaitTime: 10}

	crawler, err := NewCrawler(server.URL+"/page1", config, outputDir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := crawler.Crawl(context.Background()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("img%02d.jpg", i)
		_, err := os.Stat(filepath.Join(crawler.GetDownloadDir(), name))
		inWindow := i >= 2 && i < 7
		if inWindow && err != nil {
			t.Errorf("窗口内图片未下载: %s", name)
		}
		if !inWindow && err == nil {
			t.Errorf("窗口外图片不应下载: %s", name)
		}
	}
}

func TestCrawler_窗口作用于解析后的绝对URL(t *testing.T) {
	// 页面混用路径相对和根相对写法,两者解析到同一目录
	// 窗口必须按绝对URL的字典序计算: a.jpg在前,跳过最后1张应保留a.jpg
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dir/page1":
			w.Write([]byte(`<img src="a.jpg"><img src="/dir/b.jpg">`))
		case "/dir/a.jpg", "/dir/b.jpg":
			w.Write([]byte("image-data"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	config := models.CrawlConfig{SkipFirst: 0, SkipLast: 1, WaitTime: 10}
	crawler, err := NewCrawler(server.URL+"/dir/page1", config, t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := crawler.Crawl(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalDownloaded != 1 {
		t.Fatalf("TotalDownloaded = %d, want 1", result.TotalDownloaded)
	}
	if _, err := os.Stat(filepath.Join(crawler.GetDownloadDir(), "a.jpg")); err != nil {
		t.Error("绝对URL排序靠前的a.jpg应被下载")
	}
	if _, err := os.Stat(filepath.Join(crawler.GetDownloadDir(), "b.jpg")); err == nil {
		t.Error("绝对URL排序靠后的b.jpg应被窗口跳过")
	}
}

func TestCrawler_同地址不同写法只下载一次(t *testing.T) {
	// img.png 和 /dir/img.png 解析到同一绝对URL,去重后只应下载一份
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dir/page1":
			w.Write([]byte(`<img src="img.png"><img src="/dir/img.png">`))
		case "/dir/img.png":
			w.Write([]byte("image-data"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	config := models.CrawlConfig{WaitTime: 10}
	crawler, err := NewCrawler(server.URL+"/dir/page1", config, t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := crawler.Crawl(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalDownloaded != 1 {
		t.Errorf("TotalDownloaded = %d, want 1", result.TotalDownloaded)
	}
	if _, err := os.Stat(filepath.Join(crawler.GetDownloadDir(), "img.png")); err != nil {
		t.Error("img.png应被下载")
	}
	if _, err := os.Stat(filepath.Join(crawler.GetDownloadDir(), "img (1).png")); err == nil {
		t.Error("同一地址不应重复下载出编号文件")
	}
}

func TestCrawler_无图片页面事件(t *testing.T) {
	server := newGalleryServer(t, map[string]int{"/page1": 0})
	defer server.Close()

	sink := &models.CollectSink{}
	config := models.CrawlConfig{SkipFirst: 2, SkipLast: 3, WaitTime: 10}

	crawler, err := NewCrawler(server.URL+"/page1", config, t.TempDir(), nil, sink)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := crawler.Crawl(context.Background()); err != nil {
		t.Fatal(err)
	}

	if crawler.GetStats().EmptyPages != 1 {
		t.Errorf("EmptyPages = %d, want 1", crawler.GetStats().EmptyPages)
	}

	// 空页面有独立的事件消息,不是"跳过后无图片"
	found := false
	for _, msg := range sink.Statuses {
		if msg == "页面未发现图片" {
			found = true
		}
	}
	if !found {
		t.Errorf("未收到无图片事件, 实际事件: %v", sink.Statuses)
	}
}

func TestCrawler_模板展开与页面失败(t *testing.T) {
	// page1正常5张,page2不存在,page3正常3张
	server := newGalleryServer(t, map[string]int{"/page1": 5, "/page3": 3})
	defer server.Close()

	outputDir := t.TempDir()
	config := models.CrawlConfig{
		SkipFirst:    0,
		SkipLast:     0,
		ReplaceStr:   "page1",
		Replacements: []string{"page2", "page3"},
		WaitTime:     10,
	}

	crawler, err := NewCrawler(server.URL+"/page1", config, outputDir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := crawler.Crawl(context.Background())
	if err != nil {
		t.Fatalf("页面失败不应中断整个任务: %v", err)
	}

	// page2失败不影响page1和page3
	if result.TotalDownloaded != 8 {
		t.Errorf("TotalDownloaded = %d, want 8", result.TotalDownloaded)
	}
	if len(result.Pages) != 3 {
		t.Fatalf("Pages数量 = %d, want 3", len(result.Pages))
	}

	stats := crawler.GetStats()
	if stats.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", stats.TotalPages)
	}
	if stats.FailedPages != 1 {
		t.Errorf("FailedPages = %d, want 1", stats.FailedPages)
	}

	// 失败页面的结果被记录
	if result.Pages[1].Succeeded != 0 || !result.Pages[1].Attempted {
		t.Errorf("失败页面结果记录错误: %+v", result.Pages[1])
	}
}

func TestCrawler_重复运行不覆盖(t *testing.T) {
	server := newGalleryServer(t, map[string]int{"/page1": 3})
	defer server.Close()

	outputDir := t.TempDir()
	config := models.CrawlConfig{WaitTime: 10}

	// 连续运行两次
	for run := 0; run < 2; run++ {
		crawler, err := NewCrawler(server.URL+"/page1", config, outputDir, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		result, err := crawler.Crawl(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if result.TotalDownloaded != 3 {
			t.Fatalf("第%d次运行 TotalDownloaded = %d, want 3", run+1, result.TotalDownloaded)
		}
	}

	// 第二次运行的文件带编号后缀
	downloadDir := filepath.Join(outputDir, strings.TrimPrefix(server.URL, "http://"))
	for i := 0; i < 3; i++ {
		plain := filepath.Join(downloadDir, fmt.Sprintf("img%02d.jpg", i))
		numbered := filepath.Join(downloadDir, fmt.Sprintf("img%02d (1).jpg", i))
		if _, err := os.Stat(plain); err != nil {
			t.Errorf("首次下载的文件丢失: %s", plain)
		}
		if _, err := os.Stat(numbered); err != nil {
			t.Errorf("第二次下载应使用编号文件名: %s", numbered)
		}
	}
}

func TestCrawler_事件通知(t *testing.T) {
	server := newGalleryServer(t, map[string]int{"/page1": 2})
	defer server.Close()

	sink := &models.CollectSink{}
	config := models.CrawlConfig{WaitTime: 10}

	crawler, err := NewCrawler(server.URL+"/page1", config, t.TempDir(), nil, sink)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := crawler.Crawl(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(sink.Saved) != 2 {
		t.Errorf("OnImageSaved通知次数 = %d, want 2", len(sink.Saved))
	}
	for _, path := range sink.Saved {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("通知的路径不存在: %s", path)
		}
	}
	if len(sink.Statuses) == 0 {
		t.Error("应收到状态事件")
	}
}

func TestCrawler_取消停止下载(t *testing.T) {
	server := newGalleryServer(t, map[string]int{"/page1": 5})
	defer server.Close()

	config := models.CrawlConfig{WaitTime: 10}
	crawler, err := NewCrawler(server.URL+"/page1", config, t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := crawler.Crawl(ctx)
	if err == nil {
		t.Error("已取消的上下文应返回错误")
	}
	if result == nil {
		t.Fatal("取消时仍应返回已累积的结果")
	}
	if result.TotalDownloaded != 0 {
		t.Errorf("取消前不应有下载: %d", result.TotalDownloaded)
	}
}

func TestCrawler_生成报告(t *testing.T) {
	server := newGalleryServer(t, map[string]int{"/page1": 2})
	defer server.Close()

	config := models.CrawlConfig{WaitTime: 10}
	crawler, err := NewCrawler(server.URL+"/page1", config, t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := crawler.Crawl(context.Background()); err != nil {
		t.Fatal(err)
	}

	reportsDir := filepath.Join(crawler.GetDownloadDir(), "reports")
	for _, name := range []string{"crawl_report.json", "saved_images.json", "failed_images.json"} {
		if _, err := os.Stat(filepath.Join(reportsDir, name)); err != nil {
			t.Errorf("报告文件缺失: %s", name)
		}
	}
}

func TestNewCrawler_参数校验(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		config models.CrawlConfig
	}{
		{"无效URL", "not-a-url", models.CrawlConfig{}},
		{"负数skip", "https://example.com", models.CrawlConfig{SkipFirst: -1}},
		{"缺少占位子串", "https://example.com", models.CrawlConfig{Replacements: []string{"2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCrawler(tt.url, tt.config, t.TempDir(), nil, nil); err == nil {
				t.Error("应返回错误")
			}
		})
	}
}
