package skills

import (
	"context"
	"strings"
)

// Request is the per-dispatch input. Session state travels explicitly
// with the call instead of living on the skill instance, so concurrent
// users never share clarification state.
type Request struct {
	UserID  string
	Command string
}

// Response is always a conversational turn. NeedsClarification marks
// answers that are questions back to the user; PendingCommand is what
// the follow-up message should be combined with.
type Response struct {
	Text               string
	Skill              string
	NeedsClarification bool
	PendingCommand     string
}

// Skill recognizes and executes one category of smart-home command.
// Execute must always come back with user-facing text: hub failures are
// converted to apologies at the skill boundary, never surfaced raw.
type Skill interface {
	Name() string
	Descriptions() []string
	Matches(command string) bool
	Execute(ctx context.Context, req Request) (Response, error)
}

// matchesAny reports whether the case-folded command contains any of
// the trigger phrases as a substring.
func matchesAny(command string, phrases []string) bool {
	command = strings.ToLower(command)
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(command, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
