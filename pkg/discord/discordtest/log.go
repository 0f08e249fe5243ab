package discordtest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// LogCapture collects what discordgo logs while a test runs
type LogCapture struct {
	mu    sync.Mutex
	lines []string
}

// CaptureLog redirects discordgo's logger for the duration of the test
func CaptureLog(t *testing.T) *LogCapture {
	t.Helper()
	c := &LogCapture{}
	prev := discordgo.Logger
	discordgo.Logger = func(_ int, _ int, format string, a ...interface{}) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.lines = append(c.lines, fmt.Sprintf(format, a...))
	}
	t.Cleanup(func() { discordgo.Logger = prev })
	return c
}

// Lines returns the captured messages
func (c *LogCapture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}
