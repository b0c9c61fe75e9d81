package entropy

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/entropywalk/internal/walk"
	"golang.org/x/time/rate"
)

const (
	DefaultReseedInterval = 60 * time.Second
	DefaultPoolSize       = 1 << 20
)

// HybridOptions tune a Hybrid source. Zero values select the defaults.
type HybridOptions struct {
	// ReseedInterval bounds how often the stream is refreshed from Reader.
	ReseedInterval time.Duration
	// PoolSize is how many draws one seed may serve. Once spent, a fresh
	// seed is mandatory and draws fail until one is obtained.
	PoolSize int
	// Reader supplies seed material. Defaults to crypto/rand.
	Reader io.Reader
}

// Hybrid is a ChaCha8 stream reseeded from a high-entropy reader. It reports
// a quality score that drops when reseeding fails.
type Hybrid struct {
	logger    *log.Logger
	reader    io.Reader
	limiter   *rate.Limiter
	poolSize  int
	rng       *rand.Rand
	remaining int
	reseeds   int
	failures  int
	quality   float64
}

func NewHybrid(opts HybridOptions, logger *log.Logger) *Hybrid {
	if opts.ReseedInterval <= 0 {
		opts.ReseedInterval = DefaultReseedInterval
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = DefaultPoolSize
	}
	if opts.Reader == nil {
		opts.Reader = crand.Reader
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Hybrid{
		logger:   logger,
		reader:   opts.Reader,
		limiter:  rate.NewLimiter(rate.Every(opts.ReseedInterval), 1),
		poolSize: opts.PoolSize,
		quality:  1,
	}
}

func (h *Hybrid) Name() string { return "hybrid" }

func (h *Hybrid) NextDirection() (walk.Direction, error) {
	due := h.rng == nil || h.remaining == 0
	allowed := h.limiter.Allow()
	if due || allowed {
		if err := h.reseed(); err != nil && due {
			return 0, walk.Unavailable(h.Name(), err)
		}
	}
	h.remaining--
	return walk.Direction(h.rng.IntN(walk.NumDirections)), nil
}

func (h *Hybrid) reseed() error {
	var seed [32]byte
	if _, err := io.ReadFull(h.reader, seed[:]); err != nil {
		h.failures++
		h.quality *= 0.5
		h.logger.Warn("reseed failed", "err", err, "failures", h.failures, "quality", h.quality)
		return fmt.Errorf("reseed: %w", err)
	}

	h.rng = rand.New(rand.NewChaCha8(seed))
	h.remaining = h.poolSize
	h.reseeds++
	h.quality = 0.5*h.quality + 0.5
	h.logger.Debug("reseeded", "reseeds", h.reseeds)
	return nil
}

// Quality is 1 for a healthy stream, decays by half per failed reseed and
// recovers on success. An unusable stream reports 0.
func (h *Hybrid) Quality() float64 {
	if h.failures > 0 && (h.rng == nil || h.remaining == 0) {
		return 0
	}
	return h.quality
}

func (h *Hybrid) Reseeds() int  { return h.reseeds }
func (h *Hybrid) Failures() int { return h.failures }
