package repository

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json5")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	return path
}

func TestLoadRules_BareArray(t *testing.T) {
	path := writeRules(t, `[
		// liveness probe
		{pattern: "^ping$", reply: "pong"},
		{pattern: "status", reply: "all good",},
	]`)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Pattern != "^ping$" || rules[0].Reply != "pong" {
		t.Errorf("unexpected first rule: %+v", rules[0])
	}
	if rules[1].Reply != "all good" {
		t.Errorf("order not preserved: %+v", rules[1])
	}
}

func TestLoadRules_WrappedObject(t *testing.T) {
	path := writeRules(t, `{rules: [{pattern: "hi", reply: "hello"}]}`)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 || rules[0].Reply != "hello" {
		t.Errorf("unexpected rules: %+v", rules)
	}
}

func TestLoadRules_MissingFields(t *testing.T) {
	path := writeRules(t, `[{pattern: "hi"}]`)

	if _, err := LoadRules(path); err == nil {
		t.Fatal("expected error for rule without reply")
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "nope.json5")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
