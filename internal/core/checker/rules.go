package checker

import (
	"strings"

	"github.com/handlelens/handlelens/internal/core"
)

// BodyRule maps literal page phrases onto a status. Substring sniffing is
// fragile against upstream markup changes, so the rules live in an ordered
// list that config can extend without touching classifier control flow.
type BodyRule struct {
	Patterns []string
	Status   core.Status
	Reason   string
}

// evaluateBodyRules scans the body against each rule in order; the first
// rule with a matching pattern wins.
func evaluateBodyRules(body string, rules []BodyRule) (core.Status, string, bool) {
	lower := strings.ToLower(body)
	for _, rule := range rules {
		for _, pattern := range rule.Patterns {
			if pattern == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(pattern)) {
				return rule.Status, rule.Reason, true
			}
		}
	}
	return core.StatusUnknown, "", false
}
