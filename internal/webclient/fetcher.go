package webclient

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/RecoveryAshes/ImgFindcrack/internal/models"
	"github.com/RecoveryAshes/ImgFindcrack/internal/utils"
	"github.com/andybalholm/brotli"
)

// Fetcher 页面与图片获取器
// 持有独占的HTTP客户端实例,生命周期与创建者一致,不使用进程级单例
type Fetcher struct {
	client *http.Client

	// headerProvider HTTP头部提供者 (认证头部等)
	headerProvider models.HeaderProvider
}

// NewFetcher 创建获取器
// timeout为单次请求的总超时;重定向由http.Client自动跟随
func NewFetcher(timeout time.Duration, headerProvider models.HeaderProvider) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		headerProvider: headerProvider,
	}
}

// newRequest 构造带统一头部的GET请求
func (f *Fetcher) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败 [%s]: %w", rawURL, err)
	}

	if f.headerProvider != nil {
		headers, err := f.headerProvider.GetHeaders()
		if err != nil {
			return nil, fmt.Errorf("获取HTTP头部失败: %w", err)
		}
		for name, values := range headers {
			if len(values) > 0 {
				req.Header.Set(name, values[0])
			}
		}
	}

	return req, nil
}

// FetchText 获取页面原始HTML到内存
// 一次阻塞请求;传输层错误与HTTP错误状态统一报告为"页面不可用"
func (f *Fetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	req, err := f.newRequest(ctx, pageURL)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("页面请求失败 [%s]: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("页面不可用 [%s]: HTTP %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取页面内容失败 [%s]: %w", pageURL, err)
	}

	// 手动设置过Accept-Encoding时Go不会自动解压,按Content-Encoding处理
	if encoding := resp.Header.Get("Content-Encoding"); encoding != "" {
		decompressed, err := decompressBody(encoding, body)
		if err != nil {
			utils.Warnf("解压页面响应失败 [%s] (编码=%s): %v", pageURL, encoding, err)
		} else {
			body = decompressed
		}
	}

	return string(body), nil
}

// FetchToFile 下载二进制资源到本地文件
// 约束:
//   - 请求发起前以独占方式创建目标文件 (O_EXCL),已存在即失败
//   - 文件句柄通过defer在所有退出路径上释放
//   - 任何失败 (网络错误、HTTP错误状态、写入错误) 都会删除残缺文件
func (f *Fetcher) FetchToFile(ctx context.Context, fileURL string, dest string) (written int64, err error) {
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("创建目标文件失败 [%s]: %w", dest, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("关闭目标文件失败 [%s]: %w", dest, cerr)
		}
		if err != nil {
			if rerr := os.Remove(dest); rerr != nil {
				utils.Warnf("删除残缺文件失败 [%s]: %v", dest, rerr)
			}
		}
	}()

	req, err := f.newRequest(ctx, fileURL)
	if err != nil {
		return 0, err
	}
	// 图片直接写盘,不请求压缩编码
	req.Header.Del("Accept-Encoding")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("图片请求失败 [%s]: %w", fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("图片不可用 [%s]: HTTP %d", fileURL, resp.StatusCode)
	}

	written, err = io.Copy(out, resp.Body)
	if err != nil {
		return written, fmt.Errorf("写入图片失败 [%s]: %w", dest, err)
	}

	return written, nil
}

// decompressBody 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate, br (Brotli) 三种压缩格式
func decompressBody(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		reader := brotli.NewReader(bytes.NewReader(body))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "identity":
		return body, nil

	default:
		// 未知编码,返回原始内容
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
