package util

import (
	"fmt"
	"sync"
	"time"
)

// TimeProvider resolves the timezone that calendar buckets are cut in and
// supplies the current time.
type TimeProvider struct {
	location *time.Location
	clock    func() time.Time
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// NewTimeProvider returns a provider for timezone. Empty and "Local" both
// mean the host timezone.
func NewTimeProvider(timezone string) (*TimeProvider, error) {
	tp := &TimeProvider{clock: time.Now}
	if err := tp.SetTimezone(timezone); err != nil {
		return nil, err
	}
	return tp, nil
}

// InitializeTimeProvider replaces the global provider. On error the previous
// provider is kept.
func InitializeTimeProvider(timezone string) error {
	provider, err := NewTimeProvider(timezone)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global provider, defaulting to Local.
func GetTimeProvider() *TimeProvider {
	mu.Lock()
	defer mu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider, _ = NewTimeProvider("Local")
	}
	return globalTimeProvider
}

func (tp *TimeProvider) SetTimezone(timezone string) error {
	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Asia/Shanghai, Europe/London", timezone, err)
		}
		loc = l
	}

	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.location = loc
	return nil
}

// SetClock overrides the time source. A nil clock restores time.Now.
func (tp *TimeProvider) SetClock(clock func() time.Time) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if clock == nil {
		clock = time.Now
	}
	tp.clock = clock
}

func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Now returns the current time in the configured timezone.
func (tp *TimeProvider) Now() time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.clock().In(tp.location)
}

// In converts a time to the configured timezone. The zero time stays zero
// so that missing timestamps remain detectable.
func (tp *TimeProvider) In(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return t.In(tp.location)
}

func (tp *TimeProvider) Format(t time.Time, layout string) string {
	return tp.In(t).Format(layout)
}
