package constants

// RunStatus is the canonical status for rows in conversion_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning   RunStatus = "RUNNING"   // in progress
	RunStatusExtracted RunStatus = "EXTRACTED" // stage 1 completed (content extracted)
	RunStatusOK        RunStatus = "OK"        // html written
	RunStatusFailed    RunStatus = "FAILED"    // terminal failure
)

// Strategy names recorded per run.
const (
	StrategyVision = "vision"
	StrategyText   = "text"
	StrategyRules  = "rules"
)
