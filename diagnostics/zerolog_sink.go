package diagnostics

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ZerologSink is an alternative Sink for hosts that want structured
// fields (counter name, occurrence count) on rate-limited warnings instead
// of the default StdLogSink's plain-text lines.
type ZerologSink struct {
	Logger      zerolog.Logger
	MaxWarnings int64

	mu       sync.Mutex
	counters map[string]*atomic.Int64
}

// NewZerologSink wraps logger, capping each distinct counter at
// maxWarnings occurrences before going silent.
func NewZerologSink(logger zerolog.Logger, maxWarnings int64) *ZerologSink {
	if maxWarnings <= 0 {
		maxWarnings = 10
	}
	return &ZerologSink{Logger: logger, MaxWarnings: maxWarnings, counters: make(map[string]*atomic.Int64)}
}

func (s *ZerologSink) counterFor(name string) *atomic.Int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[name]
	if !ok {
		c = &atomic.Int64{}
		s.counters[name] = c
	}
	return c
}

func (s *ZerologSink) Warnf(counter string, format string, args ...any) {
	c := s.counterFor(counter)
	n := c.Add(1)
	if n <= s.MaxWarnings {
		s.Logger.Warn().Str("counter", counter).Int64("occurrence", n).Msgf(format, args...)
	}
}

func (s *ZerologSink) Count(counter string) int64 {
	s.mu.Lock()
	c, ok := s.counters[counter]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return c.Load()
}
