package metrics

import (
	"io/fs"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

var started = time.Now()

// SysHealth is a snapshot of process and data directory statistics.
type SysHealth struct {
	AllocMB      uint64        `json:"alloc_mb"`
	SysMB        uint64        `json:"sys_mb"`
	NumGC        uint32        `json:"num_gc"`
	Goroutines   int           `json:"goroutines"`
	DataBytes    int64         `json:"data_bytes"`
	DataDiskSize string        `json:"data_disk_size"`
	Uptime       time.Duration `json:"uptime"`
}

// GetSysHealth collects health data. dataPath is the directory holding the
// database; a missing directory reports zero bytes.
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	size := dataSize(dataPath)
	return SysHealth{
		AllocMB:      m.Alloc >> 20,
		SysMB:        m.Sys >> 20,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DataBytes:    size,
		DataDiskSize: FormatBytes(size),
		Uptime:       time.Since(started).Truncate(time.Second),
	}
}

// dataSize sums regular files under root, including SQLite's -wal and -shm
// companions.
func dataSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// FormatBytes renders a byte count with an IEC unit, e.g. "1.5 KiB".
func FormatBytes(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}
