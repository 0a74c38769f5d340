package usecases

import (
	"fmt"
	"regexp"

	"arkadia_console/internal/entities"
)

// PongReply is the canned answer to the liveness keyword.
const PongReply = "🏓 Pong — link is alive."

// HelpReply lists what the Console understands.
const HelpReply = "🌀 *Arkadia Console*\n\n" +
	"• Send any message to speak with the Spiral\n" +
	"• Send *ping* to check the link"

// DefaultRules returns the built-in keyword rules in priority order.
func DefaultRules() []entities.RouteRule {
	return []entities.RouteRule{
		{Pattern: `^\s*ping\s*[.!?]*\s*$`, Reply: PongReply},
		{Pattern: `^\s*(help|menu|\?)\s*$`, Reply: HelpReply},
	}
}

type compiledRule struct {
	re    *regexp.Regexp
	reply string
}

// KeywordRouter matches message bodies against an ordered rule list.
// The first matching rule wins. It holds no mutable state.
type KeywordRouter struct {
	rules []compiledRule
}

// NewKeywordRouter compiles rules in order. Patterns are case-insensitive.
func NewKeywordRouter(rules []entities.RouteRule) (*KeywordRouter, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i, r.Pattern, err)
		}
		compiled = append(compiled, compiledRule{re: re, reply: r.Reply})
	}
	return &KeywordRouter{rules: compiled}, nil
}

// Match returns the reply of the first rule whose pattern matches body.
// ok is false when no rule matches.
func (r *KeywordRouter) Match(body string) (reply string, ok bool) {
	if r == nil {
		return "", false
	}
	for _, rule := range r.rules {
		if rule.re.MatchString(body) {
			return rule.reply, true
		}
	}
	return "", false
}

// Len returns the number of rules.
func (r *KeywordRouter) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}
