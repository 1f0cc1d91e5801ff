// benchmark.go
// A reusable benchmarking module for rna_seq_go
// Measures execution time and memory usage for any wrapped tool run

package benchmark

import (
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Report is the resource usage of one benchmarked run.
type Report struct {
	Label          string
	Elapsed        time.Duration
	AllocMB        float64 // change in live heap
	TotalAllocMB   float64 // everything allocated during the run
	SysMB          float64 // memory obtained from the OS
	GCCycles       uint32
	CPUs           int
	GoroutineStart int
	GoroutineEnd   int
	Err            error
}

// Run wraps f to measure its runtime and memory usage. Host and OS information is
// logged up front for repeatability.
func Run(label string, log logrus.FieldLogger, f func() error) Report {
	log = log.WithField("benchmark", label)
	fields := logrus.Fields{
		"go":      runtime.Version(),                   // GoLang version
		"os_arch": runtime.GOOS + "/" + runtime.GOARCH, // Operating system
	}
	if host, err := os.Hostname(); err == nil {
		fields["host"] = host
	}
	log.WithFields(fields).Info("Running")

	runtime.GC()                          // Start from a collected heap
	var memStart, memEnd runtime.MemStats // Memory statistics before and after execution
	runtime.ReadMemStats(&memStart)
	r := Report{Label: label, CPUs: runtime.NumCPU(), GoroutineStart: runtime.NumGoroutine()}
	start := time.Now()

	r.Err = f() // Execute the function being benchmarked

	r.Elapsed = time.Since(start)
	runtime.ReadMemStats(&memEnd)
	r.GoroutineEnd = runtime.NumGoroutine()
	r.AllocMB = mb(int64(memEnd.Alloc) - int64(memStart.Alloc))
	r.TotalAllocMB = mb(int64(memEnd.TotalAlloc - memStart.TotalAlloc))
	r.SysMB = mb(int64(memEnd.Sys))
	r.GCCycles = memEnd.NumGC - memStart.NumGC

	if r.Err != nil {
		log = log.WithError(r.Err)
	}
	log.WithFields(logrus.Fields{
		"elapsed":        r.Elapsed,
		"memory_used_mb": r.AllocMB,
		"total_alloc_mb": r.TotalAllocMB,
		"sys_mb":         r.SysMB,
		"gc_cycles":      r.GCCycles, // lower is better
		"cpus":           r.CPUs,
		"goroutines":     []int{r.GoroutineStart, r.GoroutineEnd},
	}).Info("Finished")
	return r
}

func mb(bytes int64) float64 { return float64(bytes) / 1024.0 / 1024.0 }
