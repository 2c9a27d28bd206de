// File: internal/oracle/models.go
package oracle

import "strings"

// Action is the kind of atomic UI correction the oracle may request.
type Action string

const (
	ActionClick Action = "click"
	ActionType  Action = "type"
)

// maxFieldLen bounds selector and value lengths. Anything longer is not a
// plausible UI instruction and gets discarded, not repaired.
const maxFieldLen = 500

// maxInstructions caps one escalation batch.
const maxInstructions = 10

// Instruction is a single atomic UI action produced by the oracle.
// Instructions are single-use: validated once, executed at most once,
// never retried.
type Instruction struct {
	Action   Action `json:"action"`
	Selector string `json:"selector"`
	Value    string `json:"value,omitempty"`
}

// Valid reports whether the instruction satisfies the schema: a known
// action, a non-empty single-line selector within bounds, and a bounded
// value when the action types text.
func (in Instruction) Valid() bool {
	switch in.Action {
	case ActionClick, ActionType:
	default:
		return false
	}
	sel := strings.TrimSpace(in.Selector)
	if sel == "" || len(sel) > maxFieldLen || strings.ContainsAny(sel, "\n\r") {
		return false
	}
	if in.Action == ActionType && len(in.Value) > maxFieldLen {
		return false
	}
	return true
}

// PageState is a transient snapshot of the live page taken immediately
// before an escalation. Never reused after the page navigates or mutates.
type PageState struct {
	URL        string
	DOM        string
	Screenshot []byte
}
