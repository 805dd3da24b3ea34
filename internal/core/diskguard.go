package core

import (
	"fmt"

	"github.com/RecoveryAshes/ImgFindcrack/internal/utils"
	"github.com/shirou/gopsutil/v3/disk"
)

// DiskGuard 下载目录磁盘空间检查器
// 空间不足只告警不中断: 下载是否继续由使用者决定
type DiskGuard struct {
	// minFreeMB 剩余空间告警阈值(MB)
	minFreeMB uint64
}

// NewDiskGuard 创建磁盘空间检查器
func NewDiskGuard(minFreeMB int) *DiskGuard {
	if minFreeMB <= 0 {
		minFreeMB = 200
	}
	return &DiskGuard{minFreeMB: uint64(minFreeMB)}
}

// Check 检查路径所在分区的剩余空间
// 返回: 剩余空间(MB)和错误信息
func (dg *DiskGuard) Check(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("读取磁盘信息失败 [%s]: %w", path, err)
	}
	return usage.Free / (1024 * 1024), nil
}

// WarnIfLow 空间低于阈值时输出告警日志
func (dg *DiskGuard) WarnIfLow(path string) {
	freeMB, err := dg.Check(path)
	if err != nil {
		utils.Warnf("磁盘空间检查失败: %v", err)
		return
	}

	if freeMB < dg.minFreeMB {
		utils.Warnf("⚠️ 磁盘剩余空间不足: %d MB (阈值 %d MB)", freeMB, dg.minFreeMB)
	} else {
		utils.Debugf("磁盘剩余空间: %d MB", freeMB)
	}
}
