package metrics

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"
)

// SysHealth represents real-time process metrics for the status report.
type SysHealth struct {
	AllocMB    uint64
	SysMB      uint64
	Goroutines int
	DataSize   string
}

// GetSysHealth collects runtime health data. dataPath is the directory whose
// on-disk footprint is reported (inventory file, database).
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:    m.Alloc / 1024 / 1024,
		SysMB:      m.Sys / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
		DataSize:   humanize.Bytes(dirSize(dataPath)),
	}
}

func dirSize(path string) uint64 {
	var size uint64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += uint64(info.Size())
		}
		return nil
	})
	return size
}
