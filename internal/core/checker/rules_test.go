package checker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/handlelens/handlelens/internal/core"
)

func TestEvaluateBodyRulesFirstMatchWins(t *testing.T) {
	rules := []BodyRule{
		{Patterns: []string{"not found"}, Status: core.StatusAvailable, Reason: "not_found"},
		{Patterns: []string{"login"}, Status: core.StatusUnknown, Reason: "login_wall"},
	}

	status, reason, ok := evaluateBodyRules("page NOT FOUND, please login", rules)
	require.True(t, ok)
	require.Equal(t, core.StatusAvailable, status)
	require.Equal(t, "not_found", reason)
}

func TestEvaluateBodyRulesCaseInsensitive(t *testing.T) {
	rules := []BodyRule{
		{Patterns: []string{"Couldn't Find This Account"}, Status: core.StatusAvailable, Reason: "gone"},
	}

	status, _, ok := evaluateBodyRules("<p>couldn't find this account</p>", rules)
	require.True(t, ok)
	require.Equal(t, core.StatusAvailable, status)
}

func TestEvaluateBodyRulesNoMatch(t *testing.T) {
	rules := []BodyRule{
		{Patterns: []string{"", "missing phrase"}, Status: core.StatusAvailable, Reason: "gone"},
	}

	_, reason, ok := evaluateBodyRules("a perfectly ordinary page", rules)
	require.False(t, ok)
	require.Empty(t, reason)
}
