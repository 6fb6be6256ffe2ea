package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Do while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker is open")

// State is the breaker state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures a Breaker.
type Settings struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold int
	// Cooldown is how long the breaker stays open before admitting a probe.
	Cooldown time.Duration
	// OnStateChange is called with the lock released.
	OnStateChange func(name string, from, to State)
}

// Breaker guards a remote collaborator. After FailureThreshold consecutive
// failures it rejects calls for Cooldown, then lets a single probe through;
// the probe's outcome closes or reopens it.
type Breaker struct {
	name     string
	settings Settings
	now      func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// New creates a closed breaker.
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &Breaker{name: name, settings: settings, now: time.Now}
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, promoting open to half-open once the
// cooldown has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	promoted := b.refresh()
	state := b.state
	b.mu.Unlock()

	if promoted {
		b.notify(StateOpen, StateHalfOpen)
	}
	return state
}

// Failures returns the current consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Do runs fn unless the breaker is open. A panic in fn counts as a failure
// and is re-raised.
func (b *Breaker) Do(fn func() error) (err error) {
	if err := b.admit(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			b.record(false)
			panic(r)
		}
	}()

	err = fn()
	b.record(err == nil)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	promoted := b.refresh()
	var err error
	switch b.state {
	case StateOpen:
		err = ErrOpen
	case StateHalfOpen:
		if b.probing {
			err = ErrOpen
		} else {
			b.probing = true
		}
	}
	b.mu.Unlock()

	if promoted {
		b.notify(StateOpen, StateHalfOpen)
	}
	return err
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	from := b.state
	to := from

	switch {
	case success:
		b.failures = 0
		b.probing = false
		to = StateClosed
	case from == StateHalfOpen:
		b.probing = false
		b.openedAt = b.now()
		to = StateOpen
	default:
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			b.openedAt = b.now()
			to = StateOpen
		}
	}
	b.state = to
	b.mu.Unlock()

	b.notify(from, to)
}

// refresh must be called with mu held. It reports whether the breaker moved
// from open to half-open.
func (b *Breaker) refresh() bool {
	if b.state != StateOpen || b.now().Sub(b.openedAt) < b.settings.Cooldown {
		return false
	}
	b.state = StateHalfOpen
	b.probing = false
	return true
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
