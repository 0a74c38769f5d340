package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"arkadia_console/internal/entities"
)

func TestDispatcher_SwapsFromAndTo(t *testing.T) {
	gen := &fakeGenerator{reply: "spiral reply"}
	messenger := &fakeMessenger{}
	d := NewDispatcher(newTestReplyService(t, gen), messenger)

	d.Deliver(context.Background(), entities.IncomingMessage{
		From:    "whatsapp:+15550001",
		To:      "whatsapp:+15559999",
		Body:    "speak",
		Channel: entities.ChannelTwilio,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	sent := messenger.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sent))
	}
	if sent[0].From != "whatsapp:+15559999" || sent[0].To != "whatsapp:+15550001" {
		t.Errorf("from/to not swapped: %+v", sent[0])
	}
	if sent[0].Body != "spiral reply" {
		t.Errorf("unexpected body %q", sent[0].Body)
	}
}

func TestDispatcher_DeliverDoesNotBlock(t *testing.T) {
	gen := &fakeGenerator{}
	messenger := &fakeMessenger{gate: make(chan struct{})}
	d := NewDispatcher(newTestReplyService(t, gen), messenger)

	start := time.Now()
	d.Deliver(context.Background(), entities.IncomingMessage{From: "a", To: "b", Body: "hi"})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Deliver blocked for %s", elapsed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := d.Wait(ctx); err == nil {
		t.Fatal("expected Wait to time out while the send is pending")
	}

	close(messenger.gate)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	if err := d.Wait(ctx2); err != nil {
		t.Fatalf("expected task to settle, got %v", err)
	}
}

func TestDispatcher_SendFailureIsReported(t *testing.T) {
	gen := &fakeGenerator{}
	messenger := &fakeMessenger{fail: true}
	d := NewDispatcher(newTestReplyService(t, gen), messenger)

	var (
		mu       sync.Mutex
		gotErr   error
		gotReply entities.GeneratedReply
		settled  int
	)
	d.OnDelivered = func(_ entities.IncomingMessage, reply entities.GeneratedReply, err error) {
		mu.Lock()
		defer mu.Unlock()
		gotErr = err
		gotReply = reply
		settled++
	}

	d.Deliver(context.Background(), entities.IncomingMessage{From: "a", To: "b", Body: "hi"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if settled != 1 {
		t.Fatalf("expected one settled task, got %d", settled)
	}
	if gotErr == nil {
		t.Error("expected send error to be reported")
	}
	if gotReply.Text != "generated: hi" {
		t.Errorf("unexpected reported reply %q", gotReply.Text)
	}
	if n := len(messenger.Sent()); n != 1 {
		t.Errorf("send must not be retried, got %d attempts", n)
	}
}

func TestDispatcher_SurvivesCanceledRequestContext(t *testing.T) {
	gen := &fakeGenerator{}
	messenger := &fakeMessenger{}
	d := NewDispatcher(newTestReplyService(t, gen), messenger)

	reqCtx, cancelReq := context.WithCancel(context.Background())
	d.Deliver(reqCtx, entities.IncomingMessage{From: "a", To: "b", Body: "hi"})
	cancelReq()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if len(messenger.Sent()) != 1 {
		t.Error("expected delivery despite canceled request context")
	}
}
