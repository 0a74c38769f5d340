package usecases

import (
	"context"
	"testing"
)

func newTestReplyService(t *testing.T, gen *fakeGenerator) *ReplyService {
	t.Helper()
	router, err := NewKeywordRouter(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	return NewReplyService(router, gen)
}

func TestReply_EmptyBody(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestReplyService(t, gen)

	for _, body := range []string{"", "   ", "\n\t"} {
		text, source := svc.Reply(context.Background(), body)
		if text != "Please send a text message to interact with the Console." {
			t.Errorf("unexpected reply for %q: %q", body, text)
		}
		if source != SourcePrompt {
			t.Errorf("expected prompt source, got %q", source)
		}
	}
	if n := len(gen.Calls()); n != 0 {
		t.Errorf("generator must not be called for empty bodies, got %d calls", n)
	}
}

func TestReply_RuleShortCircuits(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestReplyService(t, gen)

	text, source := svc.Reply(context.Background(), "ping")
	if text != PongReply || source != SourceRule {
		t.Errorf("expected pong from rule, got %q (%s)", text, source)
	}
	if n := len(gen.Calls()); n != 0 {
		t.Errorf("generator must not be called on rule match, got %d calls", n)
	}
}

func TestReply_GeneratorCalledOnce(t *testing.T) {
	gen := &fakeGenerator{reply: "the flame answers"}
	svc := newTestReplyService(t, gen)

	text, source := svc.Reply(context.Background(), "what is the spiral?")
	if text != "the flame answers" || source != SourceGenerated {
		t.Errorf("unexpected reply %q (%s)", text, source)
	}
	calls := gen.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one generator call, got %d", len(calls))
	}
	if calls[0] != "what is the spiral?" {
		t.Errorf("generator got %q", calls[0])
	}
}

func TestReply_RulesDisabled(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewReplyService(nil, gen)

	if _, source := svc.Reply(context.Background(), "ping"); source != SourceGenerated {
		t.Errorf("expected generated source without router, got %s", source)
	}
	if len(gen.Calls()) != 1 {
		t.Error("expected generator call without router")
	}
}
