package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SearchInterval is the quiescent period before a search value propagates.
const SearchInterval = 300 * time.Millisecond

// DebounceElapsedMsg fires when a scheduled debounce interval has passed.
// Only the message carrying the latest sequence commits a value.
type DebounceElapsedMsg struct {
	Seq int
}

// SearchDebouncer delays propagation of a rapidly-changing text value until
// it has been stable for SearchInterval. Each Input supersedes the previous
// one: stale ticks resolve to nothing, so a pending emission is effectively
// cancelled whenever newer input arrives.
type SearchDebouncer struct {
	seq      int
	pending  string
	interval time.Duration
}

// NewSearchDebouncer creates a debouncer with the standard interval.
func NewSearchDebouncer() *SearchDebouncer {
	return &SearchDebouncer{interval: SearchInterval}
}

// Input registers a new value and returns the command that will deliver
// the matching DebounceElapsedMsg after the interval.
func (d *SearchDebouncer) Input(value string) tea.Cmd {
	d.seq++
	d.pending = value
	seq := d.seq
	return tea.Tick(d.interval, func(time.Time) tea.Msg {
		return DebounceElapsedMsg{Seq: seq}
	})
}

// Resolve returns the settled value for msg, or ok=false when the message
// was superseded by newer input.
func (d *SearchDebouncer) Resolve(msg DebounceElapsedMsg) (string, bool) {
	if msg.Seq != d.seq {
		return "", false
	}
	return d.pending, true
}
