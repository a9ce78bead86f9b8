package views

import "sync"

// message is the transient text a view shows under its content.
type message struct {
	mu   sync.Mutex
	text string
}

func (m *message) Message() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

func (m *message) set(s string) {
	m.mu.Lock()
	m.text = s
	m.mu.Unlock()
}

func (m *message) clear() { m.set("") }
