package notify

import (
	"sync"
	"time"
)

// Level grades a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient, user-visible message.
type Notification struct {
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// Notifier receives notifications raised by console components.
type Notifier interface {
	Notify(n Notification)
}

// Center records notifications and fans them out to subscribers.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	history []Notification
	subs    map[int]func(Notification)
	nextSub int
	now     func() time.Time
}

const maxHistory = 50

// NewCenter returns a Center whose notifications stay active for ttl.
func NewCenter(ttl time.Duration) *Center {
	return &Center{ttl: ttl, subs: make(map[int]func(Notification)), now: time.Now}
}

// Notify records n, stamping it when At is zero.
func (c *Center) Notify(n Notification) {
	c.mu.Lock()
	if n.At.IsZero() {
		n.At = c.now()
	}
	c.history = append(c.history, n)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	subs := make([]func(Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// All returns every recorded notification, oldest first.
func (c *Center) All() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification{}, c.history...)
}

// TTL is how long a notification stays active.
func (c *Center) TTL() time.Duration {
	return c.ttl
}

// Active returns notifications that have not yet expired at now.
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Notification
	for _, n := range c.history {
		if now.Sub(n.At) < c.ttl {
			out = append(out, n)
		}
	}
	return out
}

// Subscribe registers fn for future notifications and returns a cancel func.
func (c *Center) Subscribe(fn func(Notification)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.nextSub
	c.nextSub++
	c.subs[key] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, key)
		c.mu.Unlock()
	}
}
