package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ReportJanitor sweeps the transient report directory for files a crashed
// request failed to clean up. The handler deletes reports on the response
// path; this worker only covers the leak window.
type ReportJanitor struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
}

// NewReportJanitor constructs a ReportJanitor.
func NewReportJanitor(dir string, maxAge, interval time.Duration) *ReportJanitor {
	return &ReportJanitor{dir: dir, maxAge: maxAge, interval: interval}
}

// Start begins the periodic sweep loop until context is canceled.
func (w *ReportJanitor) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Str("dir", w.dir).Msg("Starting report janitor")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Report janitor stopped")
			return
		}
	}
}

func (w *ReportJanitor) run() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Error().Err(err).Str("dir", w.dir).Msg("Failed to read report directory")
		return
	}

	cutoff := time.Now().Add(-w.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !w.isReportFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to sweep report file")
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info().Int("count", removed).Msg("Swept leaked report files")
	}
}

// isReportFile matches only files this service materializes, so a shared
// temp directory is never swept of unrelated files.
func (w *ReportJanitor) isReportFile(name string) bool {
	return strings.HasPrefix(name, "transparency_report_") && strings.HasSuffix(name, ".pdf")
}
