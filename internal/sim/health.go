package sim

import "github.com/san-kum/entropywalk/internal/walk"

// DegradedQuality is the source quality below which a lane is flagged.
const DegradedQuality = 0.5

// Health tracks how reliably a lane's source has been delivering.
type Health struct {
	ConsecutiveFailures int     `json:"consecutive_failures"`
	SkippedTicks        int     `json:"skipped_ticks"`
	LastFailed          bool    `json:"last_failed"`
	LastError           string  `json:"last_error,omitempty"`
	Quality             float64 `json:"quality"`
}

func newHealth() Health {
	return Health{Quality: 1}
}

func (h Health) Degraded() bool {
	return h.LastFailed || h.Quality < DegradedQuality
}

func (h Health) Status() string {
	switch {
	case h.LastFailed:
		return "FAILING"
	case h.Degraded():
		return "DEGRADED"
	default:
		return "OK"
	}
}

func (h *Health) recordFailure(err error) {
	h.ConsecutiveFailures++
	h.SkippedTicks++
	h.LastFailed = true
	h.LastError = err.Error()
}

func (h *Health) recordSuccess() {
	h.ConsecutiveFailures = 0
	h.LastFailed = false
}

func (h *Health) observe(src walk.Source) {
	if qr, ok := src.(walk.QualityReporter); ok {
		h.Quality = qr.Quality()
	}
}
