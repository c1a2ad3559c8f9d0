package constants

// RenameStatus is the outcome tag of a single rename attempt.
type RenameStatus string

const (
	RenameStatusRenamed RenameStatus = "RENAMED" // file moved to its new name
	RenameStatusPlanned RenameStatus = "PLANNED" // dry run, target computed only
	RenameStatusFailed  RenameStatus = "FAILED"  // source left untouched
)

// OutcomeStatus is the terminal state of one document in a batch.
type OutcomeStatus string

const (
	OutcomeRenamed OutcomeStatus = "RENAMED"
	OutcomePlanned OutcomeStatus = "PLANNED"
	OutcomeSkipped OutcomeStatus = "SKIPPED" // extension not handled
	OutcomeFailed  OutcomeStatus = "FAILED"
)
