package repository

import (
	"fmt"
	"sync"
	"testing"

	"arkadia_console/internal/entities"
)

func TestChatLog_AppendAndList(t *testing.T) {
	log := NewChatLog(0)
	log.Append(entities.ChatLogEntry{From: entities.OriginUser, Text: "hello"})
	log.Append(entities.ChatLogEntry{From: entities.OriginBot, Text: "hi"})

	got := log.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].From != "user" || got[0].Text != "hello" {
		t.Errorf("unexpected first entry: %+v", got[0])
	}
	if got[1].From != "bot" || got[1].Text != "hi" {
		t.Errorf("unexpected second entry: %+v", got[1])
	}
}

func TestChatLog_ListIsSnapshot(t *testing.T) {
	log := NewChatLog(0)
	log.Append(entities.ChatLogEntry{From: entities.OriginUser, Text: "one"})

	snap := log.List()
	snap[0].Text = "mutated"
	log.Append(entities.ChatLogEntry{From: entities.OriginUser, Text: "two"})

	if len(snap) != 1 {
		t.Errorf("snapshot should not grow, got %d", len(snap))
	}
	if log.List()[0].Text != "one" {
		t.Error("mutating a snapshot must not change the log")
	}
}

func TestChatLog_EmptyListIsNotNil(t *testing.T) {
	got := NewChatLog(0).List()
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestChatLog_Limit(t *testing.T) {
	log := NewChatLog(3)
	for i := 0; i < 5; i++ {
		log.Append(entities.ChatLogEntry{From: entities.OriginUser, Text: fmt.Sprint(i)})
	}

	got := log.List()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []string{"2", "3", "4"} {
		if got[i].Text != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, got[i].Text)
		}
	}
}

func TestChatLog_ConcurrentAppend(t *testing.T) {
	log := NewChatLog(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Append(entities.ChatLogEntry{From: entities.OriginUser, Text: "x"})
		}()
	}
	wg.Wait()

	if log.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", log.Len())
	}
}
