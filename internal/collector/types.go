package collector

import "time"

// MetricData is the common wrapper for all collected metrics.
type MetricData struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	AgentID   string      `json:"agent_id"`
	Hostname  string      `json:"hostname"`
	Data      interface{} `json:"data"`
}

// StorageHealthData contains health snapshots for all probed devices.
type StorageHealthData struct {
	Devices []DeviceHealth `json:"devices"`
}

// DeviceHealth is the wire form of one device snapshot. Optional metrics
// use pointers with omitempty so that an absent value is distinguishable
// from a real zero.
type DeviceHealth struct {
	Device   string `json:"device"`
	Model    string `json:"model"`
	Serial   string `json:"serial"`
	Firmware string `json:"firmware"`

	HealthPercent      *float64 `json:"health_percent,omitempty"`
	TemperatureCelsius *float64 `json:"temperature_celsius,omitempty"`
	PowerOnHours       *int64   `json:"power_on_hours,omitempty"`
	PowerCycleCount    *int64   `json:"power_cycle_count,omitempty"`
	TotalBadBlockCount *int64   `json:"total_bad_block_count,omitempty"`
	EraseCountMax      *int64   `json:"erase_count_max,omitempty"`
	EraseCountAvg      *int64   `json:"erase_count_avg,omitempty"`
}

// DiskUsageData contains capacity metrics for mounted partitions.
type DiskUsageData struct {
	Partitions []DiskPartition `json:"partitions"`
}

// DiskPartition contains metrics for a single disk partition.
type DiskPartition struct {
	Device       string  `json:"device"`
	Mountpoint   string  `json:"mountpoint"`
	FSType       string  `json:"fs_type"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}
