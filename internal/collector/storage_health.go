package collector

import (
	"context"
	"regexp"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"ssdhealthagent/internal/config"
	"ssdhealthagent/internal/logger"
	"ssdhealthagent/internal/ssd"
)

// wholeDiskPattern matches block device names that denote a whole disk
// rather than a partition (sda, nvme0n1, mmcblk0, ...).
var wholeDiskPattern = regexp.MustCompile(`^(sd[a-z]+|hd[a-z]+|vd[a-z]+|xvd[a-z]+|nvme[0-9]+n[0-9]+|mmcblk[0-9]+)$`)

// StorageHealthCollector probes SSD health through vendor diagnostic tools.
// Each collection cycle takes a fresh snapshot per device.
type StorageHealthCollector struct {
	BaseCollector
	devices []string // Specific device paths to probe; empty means discover

	// newReporter builds a snapshot for one device. Tests replace it to
	// avoid invoking real vendor tools.
	newReporter func(ctx context.Context, path string) ssd.Reporter
}

// NewStorageHealthCollector creates a new SSD health collector.
func NewStorageHealthCollector() *StorageHealthCollector {
	return &StorageHealthCollector{
		BaseCollector: NewBaseCollector("storage_health", 5*time.Minute),
		newReporter: func(ctx context.Context, path string) ssd.Reporter {
			return ssd.New(ctx, path)
		},
	}
}

// Configure applies the configuration to the collector.
func (c *StorageHealthCollector) Configure(cfg config.CollectorConfig) error {
	c.SetEnabled(cfg.Enabled)
	if cfg.Interval > 0 {
		c.SetInterval(cfg.Interval)
	}
	c.devices = cfg.Devices
	return nil
}

// Collect probes every target device and returns its health snapshot.
func (c *StorageHealthCollector) Collect(ctx context.Context) (*MetricData, error) {
	log := logger.WithComponent("collector")

	devices := c.devices
	if len(devices) == 0 {
		devices = discoverDevices(ctx)
	}

	snapshots := make([]DeviceHealth, 0, len(devices))
	for _, dev := range devices {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rep := c.newReporter(ctx, dev)
		snapshots = append(snapshots, snapshot(dev, rep))
	}

	log.Debug().Int("devices", len(snapshots)).Msg("Storage health collected")

	return &MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data:      StorageHealthData{Devices: snapshots},
	}, nil
}

// snapshot converts a reporter's accessors into the wire form. Absent and
// unsupported values both map to nil fields.
func snapshot(device string, rep ssd.Reporter) DeviceHealth {
	return DeviceHealth{
		Device:             device,
		Model:              rep.Model(),
		Serial:             rep.Serial(),
		Firmware:           rep.Firmware(),
		HealthPercent:      floatField(rep.Health),
		TemperatureCelsius: floatField(rep.Temperature),
		PowerOnHours:       intField(rep.PowerOnHours),
		PowerCycleCount:    intField(rep.PowerCycleCount),
		TotalBadBlockCount: intField(rep.TotalBadBlockCount),
		EraseCountMax:      intField(rep.EraseCountMax),
		EraseCountAvg:      intField(rep.EraseCountAvg),
	}
}

func floatField(get func() (float64, error)) *float64 {
	v, err := get()
	if err != nil {
		return nil
	}
	return &v
}

func intField(get func() (int64, error)) *int64 {
	v, err := get()
	if err != nil {
		return nil
	}
	return &v
}

// discoverDevices lists whole-disk block devices known to the kernel.
// Failures yield an empty list; devices can always be pinned in config.
func discoverDevices(ctx context.Context) []string {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		log := logger.WithComponent("collector")
		log.Warn().Err(err).Msg("Block device discovery failed")
		return nil
	}

	var devices []string
	for name := range counters {
		if wholeDiskPattern.MatchString(name) {
			devices = append(devices, "/dev/"+name)
		}
	}
	sort.Strings(devices)
	return devices
}
