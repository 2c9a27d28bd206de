// File: internal/flow/outcome.go
package flow

import "fmt"

// State is the controller's position in the workflow.
type State string

const (
	StateInit         State = "init"
	StateNavigated    State = "navigated"
	StateLoggedIn     State = "logged-in"
	StateSeatSelected State = "seat-selected"
	StateCheckedOut   State = "checked-out"
	StateSuccess      State = "success"
	StateFailed       State = "failed"
)

// Step names as they appear in outcomes and logs.
const (
	StepNavigate = "navigate"
	StepLogin    = "login"
	StepSeat     = "seat-selection"
	StepCheckout = "checkout"
)

// Outcome is the terminal result of one run: success, or failure tagged
// with the step it happened at and a human-readable cause. The message is
// what downstream notification sees.
type Outcome struct {
	RunID      string
	Target     string
	Succeeded  bool
	FailedStep string
	Cause      string
}

// Message renders the single notification line for this run.
func (o Outcome) Message() string {
	if o.Succeeded {
		return fmt.Sprintf("run %s: booking workflow completed for %s", o.RunID, o.Target)
	}
	return fmt.Sprintf("run %s: booking workflow failed at %s: %s", o.RunID, o.FailedStep, o.Cause)
}
