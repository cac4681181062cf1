package progress

import (
	"fmt"
	"math"
	"time"
)

const (
	// IdleSpeed is reported once a transfer is no longer moving bytes.
	IdleSpeed = "0 KB/s"
	// UnknownETA is reported when the remaining time cannot be estimated.
	UnknownETA = "--"
	// CalculatingETA is reported for the first sample, before any time has elapsed.
	CalculatingETA = "Calc..."

	mebibyte = 1024 * 1024
)

// Snapshot holds the derived, display-ready fields of a transfer.
type Snapshot struct {
	Progress int
	Speed    string
	ETA      string
}

// Compute derives progress, speed and ETA from the bytes written so far, the expected
// total (0 when unknown) and the wall-clock time since the transfer started.
func Compute(downloaded, size int64, elapsed time.Duration) Snapshot {
	var snap Snapshot

	if size > 0 {
		snap.Progress = Percent(downloaded, size)
	}

	seconds := elapsed.Seconds()
	if seconds <= 0 {
		snap.Speed = FormatSpeed(0)
		snap.ETA = CalculatingETA

		return snap
	}

	throughput := float64(downloaded) / seconds
	snap.Speed = FormatSpeed(throughput)
	snap.ETA = UnknownETA

	if size > 0 && throughput > 0 {
		remaining := float64(size - downloaded)
		snap.ETA = FormatETA(remaining / throughput)
	}

	return snap
}

// Percent returns floor(downloaded/size*100) clamped to [0, 100].
func Percent(downloaded, size int64) int {
	if size <= 0 || downloaded <= 0 {
		return 0
	}

	if downloaded >= size {
		return 100
	}

	return int(downloaded * 100 / size)
}

// FormatSpeed renders a throughput in bytes per second as megabytes per second.
func FormatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}

	return fmt.Sprintf("%.2f MB/s", bytesPerSecond/mebibyte)
}

// FormatETA renders a remaining time in seconds as "1h 05m" or "04m 09s".
func FormatETA(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	if math.IsInf(seconds, 1) {
		return UnknownETA
	}

	total := int64(math.Round(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}

	return fmt.Sprintf("%02dm %02ds", m, s)
}

// FormatSize converts bytes into a human-readable string.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < 0 {
		return "Unknown"
	}

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	d := float64(bytes)
	exp := 0

	for d >= unit && exp < 6 {
		d /= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", d, "KMGTPE"[exp-1])
}
