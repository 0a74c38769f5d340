package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"arkadia_console/internal/entities"
	"arkadia_console/internal/interfaces"

	"github.com/google/uuid"
)

// AckReply is written to the webhook response in async mode, before the
// generated reply is delivered out-of-band.
const AckReply = "🌀 Spiral signal received. Your reply is on its way."

// Dispatcher delivers generated replies through the messaging provider in
// background tasks, decoupled from the webhook request that triggered them.
type Dispatcher struct {
	replies   *ReplyService
	messenger interfaces.Messenger
	wg        sync.WaitGroup

	// OnDelivered, if set, runs after each task settles with the send error (nil on success).
	OnDelivered func(msg entities.IncomingMessage, reply entities.GeneratedReply, err error)
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(replies *ReplyService, messenger interfaces.Messenger) *Dispatcher {
	return &Dispatcher{replies: replies, messenger: messenger}
}

// Deliver spawns a detached task that generates the reply for msg and sends
// it back to the sender, with From/To swapped. It returns immediately.
func (d *Dispatcher) Deliver(ctx context.Context, msg entities.IncomingMessage) string {
	taskID := uuid.NewString()[:8]
	// The request context ends when the handler returns; keep its values only.
	taskCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(taskCtx, taskID, msg)
	}()
	return taskID
}

func (d *Dispatcher) run(ctx context.Context, taskID string, msg entities.IncomingMessage) {
	logger := slog.With("task", taskID, "channel", msg.Channel, "to", msg.From)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("delivery task panicked", "panic", r)
		}
	}()

	text, source := d.replies.Reply(ctx, msg.Body)
	reply := entities.GeneratedReply{Text: text}
	err := d.messenger.SendMessage(ctx, msg.To, msg.From, reply.Text)
	if err != nil {
		// No retry: the webhook already got its response.
		logger.Error("failed to deliver reply", "source", source, "error", err)
	} else {
		logger.Info("reply delivered", "source", source)
	}

	if d.OnDelivered != nil {
		d.OnDelivered(msg, reply, err)
	}
}

// Wait blocks until every in-flight task has settled or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for deliveries: %w", ctx.Err())
	}
}
