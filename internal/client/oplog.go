package client

import (
	"fmt"
	"sync"
	"time"
)

const DefaultOpLogSize = 10

type Entry struct {
	At      time.Time
	Message string
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.At.Format("15:04:05"), e.Message)
}

// OpLog keeps the most recent operations, newest first.
type OpLog struct {
	mu      sync.Mutex
	size    int
	entries []Entry
	now     func() time.Time
}

func NewOpLog(size int) *OpLog {
	if size <= 0 {
		size = DefaultOpLogSize
	}
	l := &OpLog{
		size: size,
		now:  time.Now,
	}
	l.Add("Sistema iniciado")
	return l
}

func (l *OpLog) Add(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{At: l.now(), Message: message}
	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > l.size {
		l.entries = l.entries[:l.size]
	}
}

func (l *OpLog) Addf(format string, args ...interface{}) {
	l.Add(fmt.Sprintf(format, args...))
}

// Entries returns a copy, newest first.
func (l *OpLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *OpLog) Reset() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	l.Add("Sistema reiniciado")
}
