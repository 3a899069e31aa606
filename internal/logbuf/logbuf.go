// Package logbuf provides an explicitly constructed in-memory debug log: a
// bounded ring of recent lines plus a subscriber fan-out. Components receive a
// *Buffer by injection; there is no package-level state.
package logbuf

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultMaxLines bounds the ring buffer.
const DefaultMaxLines = 100

// Listener receives each appended line.
type Listener func(line string)

// Buffer is a bounded in-memory log with subscriber notification. Safe for
// concurrent use.
type Buffer struct {
	mu        sync.Mutex
	lines     []string
	maxLines  int
	listeners map[int]Listener
	nextID    int
	echo      bool
}

// New creates a Buffer holding at most maxLines lines. maxLines <= 0 selects
// the default. When echo is set, lines are also written to the standard logger.
func New(maxLines int, echo bool) *Buffer {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Buffer{
		maxLines:  maxLines,
		listeners: make(map[int]Listener),
		echo:      echo,
	}
}

// Debug appends a timestamped line and notifies subscribers.
func (b *Buffer) Debug(format string, args ...any) {
	line := time.Now().UTC().Format("15:04:05") + " " + fmt.Sprintf(format, args...)

	b.mu.Lock()
	b.lines = append(b.lines, line)
	if len(b.lines) > b.maxLines {
		b.lines = b.lines[len(b.lines)-b.maxLines:]
	}
	toNotify := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		toNotify = append(toNotify, l)
	}
	b.mu.Unlock()

	if b.echo {
		log.Println(line)
	}
	for _, l := range toNotify {
		l(line)
	}
}

// Subscribe registers a listener, replays the current buffer to it, and returns
// an unsubscribe function.
func (b *Buffer) Subscribe(listener Listener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = listener
	replay := append([]string(nil), b.lines...)
	b.mu.Unlock()

	for _, line := range replay {
		listener(line)
	}

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}
