package logbuf

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_DebugAppendsFormattedLines(t *testing.T) {
	b := New(10, false)

	b.Debug("hello %s n=%d", "world", 42)

	lines := b.Lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "hello world n=42"), "got %q", lines[0])
}

func TestBuffer_RingDropsOldestLines(t *testing.T) {
	b := New(3, false)

	for _, s := range []string{"one", "two", "three", "four"} {
		b.Debug("%s", s)
	}

	lines := b.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "two")
	assert.Contains(t, lines[2], "four")
}

func TestBuffer_SubscribeReplaysAndNotifies(t *testing.T) {
	b := New(10, false)
	b.Debug("before subscribe")

	var got []string
	unsubscribe := b.Subscribe(func(line string) { got = append(got, line) })

	require.Len(t, got, 1)
	assert.Contains(t, got[0], "before subscribe")

	b.Debug("after subscribe")
	require.Len(t, got, 2)
	assert.Contains(t, got[1], "after subscribe")

	unsubscribe()
	b.Debug("after unsubscribe")
	assert.Len(t, got, 2)
}

func TestBuffer_LinesReturnsACopy(t *testing.T) {
	b := New(10, false)
	b.Debug("original")

	lines := b.Lines()
	lines[0] = "mutated"

	assert.Contains(t, b.Lines()[0], "original")
}

func TestBuffer_ConcurrentDebug(t *testing.T) {
	b := New(50, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				b.Debug("writer=%d line=%d", n, j)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, b.Lines(), 50)
}

func TestNew_DefaultMaxLines(t *testing.T) {
	b := New(0, false)

	for i := 0; i < DefaultMaxLines+10; i++ {
		b.Debug("line %d", i)
	}

	assert.Len(t, b.Lines(), DefaultMaxLines)
}
