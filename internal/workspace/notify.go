package workspace

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message for the client, drained on read.
type Notification struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// maxNotifications caps the backlog when nobody drains it.
const maxNotifications = 200

type notifier struct {
	mu    sync.Mutex
	items []Notification
	now   func() time.Time
}

func (n *notifier) push(level Level, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{Level: level, Title: title, Message: message, At: n.now()})
	if over := len(n.items) - maxNotifications; over > 0 {
		n.items = n.items[over:]
	}
}

func (n *notifier) drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
