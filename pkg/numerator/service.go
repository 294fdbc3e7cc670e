// Package numerator assigns document numbers from the sys_sequences
// table. Ledger transactions get strictly sequential reference numbers;
// building and fee codes use a cheaper cached allocation.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Strategy picks how the next number is allocated.
type Strategy int

const (
	// StrategyStrict takes one round trip per number and never leaves
	// gaps. Used for accounting references.
	StrategyStrict Strategy = iota

	// StrategyCached reserves a range in one round trip and hands out
	// numbers from memory. Restarts may leave gaps, which is fine for
	// internal codes.
	StrategyCached
)

// Options tunes allocation per call.
type Options struct {
	Strategy Strategy
	// RangeSize is how many numbers a cached reservation grabs at
	// once. Zero means 50.
	RangeSize int64
}

func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Querier is the single database operation the service needs, so both
// a pool and a transaction fit.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service hands out document numbers.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// Config describes one number series.
type Config struct {
	Prefix      string // e.g. "TRX", "BLD"
	IncludeYear bool
	PadWidth    int    // minimum digits, zero means 5
	ResetPeriod string // "year", "month" or "never"
}

// DefaultConfig is a yearly-resetting series like TRX-2026-00001.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// GetNextNumber allocates and formats the next number of the series.
// period selects which reset bucket the number lands in; nil opts
// means strict allocation.
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	key := s.buildKey(cfg, period)

	var num int64
	var err error
	if opts.Strategy == StrategyCached {
		num, err = s.nextCached(ctx, key, opts)
	} else {
		num, err = s.nextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return s.format(cfg, period, num), nil
}

func (s *Service) nextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

func (s *Service) nextCached(ctx context.Context, key string, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[key]
	if !exists {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// current_val is the last allocated number, so bumping it by
		// size reserves (old_val+1 .. old_val+size) for this process.
		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
            RETURNING current_val`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

func (s *Service) buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%d_%02d", cfg.Prefix, period.Year(), int(period.Month()))
	case "never":
		return cfg.Prefix
	default: // year
		return fmt.Sprintf("%s_%d", cfg.Prefix, period.Year())
	}
}

func (s *Service) format(cfg Config, period time.Time, num int64) string {
	pad := cfg.PadWidth
	if pad <= 0 {
		pad = 5
	}
	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, period.Year(), pad, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, pad, num)
}
