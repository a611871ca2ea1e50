package cli

import "ocrdkit/internal/ocrd"

// OutcomeKind discriminates the possible results of a parse.
type OutcomeKind int

const (
	// OutcomeContinue means ordinary file processing should proceed.
	OutcomeContinue OutcomeKind = iota
	// OutcomeWorker and OutcomeServer request a terminal hand-off to the
	// external tool's networked runtime.
	OutcomeWorker
	OutcomeServer
	// OutcomeExit means the invocation is already fully satisfied (usage
	// print, an informational command) and the process should exit.
	OutcomeExit
)

// Outcome is the tagged result of a parse: continue with a validated
// configuration, hand off to a networked runtime, or exit. The caller
// decides how to perform the actual hand-off or exit.
type Outcome struct {
	Kind OutcomeKind

	// Continue
	Options    *Options
	Params     map[string]string
	ParamsJSON string

	// Hand-off
	Worker *ocrd.WorkerSpec
	Server *ocrd.ServerSpec

	// Exit
	Code int
}

func exitOutcome(code int) (*Outcome, error) {
	return &Outcome{Kind: OutcomeExit, Code: code}, nil
}
