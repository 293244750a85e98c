package collector

import (
	"context"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"ssdhealthagent/internal/config"
)

// DiskUsageCollector collects partition capacity metrics, giving the health
// snapshots their usage context.
type DiskUsageCollector struct {
	BaseCollector
	devices []string // Specific devices or mountpoints to include; empty means all
}

// NewDiskUsageCollector creates a new disk usage collector.
func NewDiskUsageCollector() *DiskUsageCollector {
	return &DiskUsageCollector{
		BaseCollector: NewBaseCollector("disk_usage", 30*time.Second),
	}
}

// Configure applies the configuration to the collector.
func (c *DiskUsageCollector) Configure(cfg config.CollectorConfig) error {
	c.SetEnabled(cfg.Enabled)
	if cfg.Interval > 0 {
		c.SetInterval(cfg.Interval)
	}
	c.devices = cfg.Devices
	return nil
}

// Collect gathers partition usage metrics.
func (c *DiskUsageCollector) Collect(ctx context.Context) (*MetricData, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	var result []DiskPartition

	for _, p := range partitions {
		if len(c.devices) > 0 && !c.shouldInclude(p.Device, p.Mountpoint) {
			continue
		}
		if isPseudoFS(p.Fstype) {
			continue
		}

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			continue // Skip partitions we can't read
		}
		if usage.Total == 0 {
			continue // Empty removable media
		}

		result = append(result, DiskPartition{
			Device:       p.Device,
			Mountpoint:   p.Mountpoint,
			FSType:       p.Fstype,
			TotalBytes:   usage.Total,
			UsedBytes:    usage.Used,
			FreeBytes:    usage.Free,
			UsagePercent: usage.UsedPercent,
		})
	}

	return &MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data:      DiskUsageData{Partitions: result},
	}, nil
}

func (c *DiskUsageCollector) shouldInclude(device, mountpoint string) bool {
	for _, d := range c.devices {
		if d == device || d == mountpoint {
			return true
		}
	}
	return false
}

func isPseudoFS(fstype string) bool {
	pseudoFS := []string{
		"sysfs", "proc", "devtmpfs", "devpts", "tmpfs", "securityfs",
		"cgroup", "cgroup2", "pstore", "debugfs", "hugetlbfs", "mqueue",
		"fusectl", "configfs", "autofs", "binfmt_misc", "fuse.gvfsd-fuse",
		"overlay", "squashfs",
		"cdfs", "udf", // CD-ROM / DVD
	}
	fsLower := strings.ToLower(fstype)
	for _, pfs := range pseudoFS {
		if fsLower == pfs {
			return true
		}
	}
	return false
}
