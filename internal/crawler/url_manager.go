package crawler

import (
	"errors"
	"fmt"
	"time"

	"storecrawl/internal/config"
	"storecrawl/internal/logger"
)

// URL manager errors.
var (
	ErrNoURLsAvailable = errors.New("no URLs available for source")
	ErrZipcodesNeeded  = errors.New("url_template requires a zipcode_file")
)

// URLManager builds the fetch plan for each source and records the outcome
// of every attempt, so a run can report which locator endpoints misbehaved.
type URLManager struct {
	attemptLog map[string][]AttemptResult
}

// AttemptResult records the result of a URL fetch attempt.
type AttemptResult struct {
	Timestamp  time.Time
	URL        string
	Error      string
	Attempt    int
	Duration   time.Duration
	StatusCode int
	Success    bool
}

// NewURLManager creates a new URL manager.
func NewURLManager() *URLManager {
	return &URLManager{
		attemptLog: make(map[string][]AttemptResult),
	}
}

// URLsFor returns every URL to fetch for a source: the local fixture path,
// the template expanded over the zipcode seed file, or the primary URL plus
// backups.
func (um *URLManager) URLsFor(src config.SourceConfig) ([]string, error) {
	if src.IsLocalFile() {
		return []string{src.File}, nil
	}

	if src.URLTemplate != "" {
		if src.ZipcodeFile == "" {
			return nil, fmt.Errorf("%w: %s", ErrZipcodesNeeded, src.Brand)
		}

		zipcodes, err := LoadZipcodes(src.ZipcodeFile)
		if err != nil {
			return nil, err
		}

		urls := make([]string, 0, len(zipcodes))
		for _, z := range zipcodes {
			urls = append(urls, z.ExpandURL(src.URLTemplate))
		}

		return urls, nil
	}

	if src.URL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoURLsAvailable, src.Brand)
	}

	return src.GetAllURLs(), nil
}

// RecordAttempt records the result of a fetch attempt.
func (um *URLManager) RecordAttempt(url string, success bool, err error, statusCode int, duration time.Duration) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}

	um.attemptLog[url] = append(um.attemptLog[url], AttemptResult{
		URL:        url,
		Attempt:    len(um.attemptLog[url]) + 1,
		Success:    success,
		Error:      errMsg,
		Timestamp:  time.Now(),
		Duration:   duration,
		StatusCode: statusCode,
	})
}

// GetAttemptLog returns the attempt log for a URL.
func (um *URLManager) GetAttemptLog(url string) []AttemptResult {
	return um.attemptLog[url]
}

// GetAttemptStats returns statistics about fetch attempts.
func (um *URLManager) GetAttemptStats() AttemptStats {
	stats := AttemptStats{
		URLAttempts: make(map[string]int),
	}

	for url, results := range um.attemptLog {
		stats.URLAttempts[url] = len(results)
		stats.TotalAttempts += len(results)
		stats.TotalURLs++

		urlSuccess := false

		for _, result := range results {
			if result.Success {
				stats.SuccessfulAttempts++
				urlSuccess = true
			} else {
				stats.FailedAttempts++
			}
		}

		if urlSuccess {
			stats.SuccessfulURLs++
		} else {
			stats.FailedURLs++
		}
	}

	return stats
}

// AttemptStats contains statistics about fetch attempts.
type AttemptStats struct {
	URLAttempts        map[string]int
	TotalURLs          int
	SuccessfulURLs     int
	FailedURLs         int
	TotalAttempts      int
	SuccessfulAttempts int
	FailedAttempts     int
}

// String returns a string representation of attempt stats.
func (s AttemptStats) String() string {
	return fmt.Sprintf(
		"URLs: %d total, %d success, %d failed | Attempts: %d total, %d success, %d failed",
		s.TotalURLs,
		s.SuccessfulURLs,
		s.FailedURLs,
		s.TotalAttempts,
		s.SuccessfulAttempts,
		s.FailedAttempts,
	)
}

// LogAttemptSummary logs a summary of fetch attempts using the provided logger.
func (um *URLManager) LogAttemptSummary(l *logger.Logger) {
	stats := um.GetAttemptStats()
	l.Info(fmt.Sprintf("📊 Fetch summary: %s", stats))

	for url, results := range um.attemptLog {
		last := results[len(results)-1]
		if last.Success {
			continue
		}

		l.Warn(fmt.Sprintf("❌ %s failed after %d attempts: %s", url, len(results), last.Error))
	}
}

// Reset clears the attempt log.
func (um *URLManager) Reset() {
	um.attemptLog = make(map[string][]AttemptResult)
}
