// Package prompt defines the modal decision contract between the session
// core and the presentation layer.
package prompt

// Kind selects which confirmation is being requested.
type Kind int

const (
	// UnsavedChanges asks what to do with a modified document before it closes.
	UnsavedChanges Kind = iota
	// Overwrite asks whether an existing destination file may be replaced.
	Overwrite
	// MergeDirectories asks whether two directories should be merged.
	MergeDirectories
)

func (k Kind) String() string {
	switch k {
	case Overwrite:
		return "overwrite"
	case MergeDirectories:
		return "merge_directories"
	default:
		return "unsaved_changes"
	}
}

// Decision is the user's answer to a prompt. The zero value is Cancel so a
// misbehaving presenter can never accidentally approve anything.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionSave
	DecisionDiscard
	DecisionOverwrite
	DecisionMerge
)

func (d Decision) String() string {
	switch d {
	case DecisionSave:
		return "save"
	case DecisionDiscard:
		return "discard"
	case DecisionOverwrite:
		return "overwrite"
	case DecisionMerge:
		return "merge"
	default:
		return "cancel"
	}
}

// Prompter presents a blocking prompt and returns the user's decision.
// Callers treat the call as synchronous: the enclosing flow stops until a
// decision is returned, and implementations must not allow a second prompt
// to start while one is pending.
type Prompter interface {
	Prompt(kind Kind, detail string) Decision
}

// Func adapts a plain function to the Prompter interface. Used heavily in
// tests.
type Func func(kind Kind, detail string) Decision

func (f Func) Prompt(kind Kind, detail string) Decision { return f(kind, detail) }
