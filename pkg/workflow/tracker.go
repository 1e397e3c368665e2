package workflow

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrBusy is returned when the same control already has a request in flight
var ErrBusy = errors.New("operation already in progress")

// Tracker records which controls have a request in flight. Each control
// runs at most one request at a time; different controls are independent.
type Tracker struct {
	mu     sync.Mutex
	active map[string]string
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]string)}
}

// Begin marks key busy with a label shown while the request runs. The
// returned release function clears it and must be deferred by the caller.
func (t *Tracker) Begin(key, label string) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.active[key]; busy {
		return nil, fmt.Errorf("%s: %w", key, ErrBusy)
	}
	t.active[key] = label

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.active, key)
			t.mu.Unlock()
		})
	}, nil
}

// Run executes fn while key is marked busy. The mark is cleared however fn
// returns, including by panic.
func (t *Tracker) Run(key, label string, fn func() error) error {
	release, err := t.Begin(key, label)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Busy returns the label of key when it is in flight
func (t *Tracker) Busy(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	label, ok := t.active[key]
	return label, ok
}

// Active lists the keys in flight, sorted
func (t *Tracker) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]string, 0, len(t.active))
	for k := range t.active {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TestKey is the control key of a channel measurement test
func TestKey(channelID int) string {
	return fmt.Sprintf("test:%d", channelID)
}

// PreviewKey is the control key of a channel announcement preview
func PreviewKey(channelID int) string {
	return fmt.Sprintf("preview:%d", channelID)
}

// SynthesizeKey is the control key of the TTS tool
const SynthesizeKey = "synthesize"
