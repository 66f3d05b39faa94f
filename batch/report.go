package batch

import (
	"fmt"
	"sort"
	"time"
)

// Done is printed once a run finishes
const Done = "Images have been copied and compressed."

// FileError is a failure of one file, the run goes on
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Report of a run
type Report struct {
	Processed int
	Ignored   int
	Failed    []FileError
	BytesIn   int64
	BytesOut  int64
	Elapsed   time.Duration
}

// Skipped is the count of eligible files that failed
func (r *Report) Skipped() int {
	return len(r.Failed)
}

// Saved bytes of the processed files, negative when outputs grew
func (r *Report) Saved() int64 {
	return r.BytesIn - r.BytesOut
}

// Summary ...
func (r *Report) Summary() string {
	return fmt.Sprintf("processed %d, skipped %d, ignored %d, %s -> %s in %s",
		r.Processed, r.Skipped(), r.Ignored,
		humanSize(r.BytesIn), humanSize(r.BytesOut), r.Elapsed.Round(time.Millisecond))
}

func (r *Report) sortFailed() {
	sort.Slice(r.Failed, func(i, j int) bool { return r.Failed[i].Name < r.Failed[j].Name })
}

func humanSize(n int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.2f GB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.2f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.2f KB", float64(n)/kb)
	}
	return fmt.Sprintf("%d B", n)
}
