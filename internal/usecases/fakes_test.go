package usecases

import (
	"context"
	"errors"
	"sync"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	reply string
}

func (g *fakeGenerator) Generate(_ context.Context, text string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, text)
	if g.reply == "" {
		return "generated: " + text
	}
	return g.reply
}

func (g *fakeGenerator) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

type sentMessage struct {
	From, To, Body string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
	gate chan struct{} // if set, SendMessage blocks until closed
}

func (m *fakeMessenger) SendMessage(_ context.Context, from, to, body string) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{From: from, To: to, Body: body})
	if m.fail {
		return errors.New("provider unavailable")
	}
	return nil
}

func (m *fakeMessenger) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}
