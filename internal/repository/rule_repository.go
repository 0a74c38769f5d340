package repository

import (
	"fmt"
	"os"

	"arkadia_console/internal/entities"

	"github.com/titanous/json5"
)

type rulesFile struct {
	Rules []entities.RouteRule `json:"rules"`
}

// LoadRules reads an ordered rule list from a JSON5 file. The file holds either
// a bare array of {pattern, reply} objects or an object with a "rules" array.
func LoadRules(path string) ([]entities.RouteRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rules []entities.RouteRule
	if err := json5.Unmarshal(data, &rules); err != nil {
		var wrapped rulesFile
		if err2 := json5.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse rules file: %w", err)
		}
		rules = wrapped.Rules
	}

	for i, r := range rules {
		if r.Pattern == "" || r.Reply == "" {
			return nil, fmt.Errorf("rule %d: pattern and reply are required", i)
		}
	}
	return rules, nil
}
