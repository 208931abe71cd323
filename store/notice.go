package store

import (
	"sync"
	"time"
)

// Level is the severity of a Notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-facing message produced by a store operation.
// The view layer decides how to present it.
type Notice struct {
	Op      string    `json:"op"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notices
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discard struct{}

func (discard) Notify(Notice) {}

// NoticeLog keeps the most recent notices until they are drained
type NoticeLog struct {
	mu    sync.Mutex
	max   int
	items []Notice
}

// NewNoticeLog keeps at most max notices, dropping the oldest
func NewNoticeLog(max int) *NoticeLog {
	if max <= 0 {
		max = 50
	}
	return &NoticeLog{max: max}
}

func (l *NoticeLog) Notify(n Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, n)
	if len(l.items) > l.max {
		l.items = l.items[len(l.items)-l.max:]
	}
}

// Drain returns pending notices oldest first and empties the log
func (l *NoticeLog) Drain() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Len is the number of pending notices
func (l *NoticeLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
