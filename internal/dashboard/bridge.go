package dashboard

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers a message to the running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards poll results from poller goroutines to the Bubble Tea
// program via program.Send(). It is goroutine-safe.
//
// The model is built before the program exists, so the program is attached
// afterwards. Messages sent before Attach are dropped.
type Bridge struct {
	mu     sync.RWMutex
	target Sender
}

// NewBridge creates a bridge, optionally already attached to target.
func NewBridge(target Sender) *Bridge {
	return &Bridge{target: target}
}

// Attach sets the program that receives messages.
func (b *Bridge) Attach(target Sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = target
}

// Send forwards msg to the attached program.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.RLock()
	target := b.target
	b.mu.RUnlock()
	if target != nil {
		target.Send(msg)
	}
}
