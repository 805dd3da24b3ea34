package webclient

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/ImgFindcrack/internal/models"
)

// UniquePath 返回不会覆盖已有文件的路径
// 候选路径空闲时原样返回,否则在同目录下尝试 "stem (n)ext",
// n从1开始递增直到找到空闲路径
// 爬取循环严格串行处理图片,同进程内不会有两个下载争用同一个编号
func UniquePath(candidate string) string {
	if _, err := os.Stat(candidate); err != nil {
		return candidate
	}

	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(candidate, ext)

	for n := 1; ; n++ {
		next := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if _, err := os.Stat(next); err != nil {
			return next
		}
	}
}

// FilenameForURL 从图片URL推导本地文件名
// 取路径的最后一段 (查询串在解析时已剥离);
// 无法得到带扩展名的片段时,用URL哈希合成文件名避免重名
func FilenameForURL(imageURL string) string {
	addr := ParseAddress(imageURL)

	filename := path.Base(addr.Path)
	if filename == "" || filename == "." || filename == "/" || !strings.Contains(filename, ".") {
		sum := sha256.Sum256([]byte(imageURL))
		return fmt.Sprintf("image_%x%s", sum[:8], models.FallbackImageExt)
	}

	return filename
}
