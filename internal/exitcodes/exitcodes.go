package exitcodes

// Exit codes for the saferm CLI
// These codes form the operational contract with scripts and CI pipelines
const (
	Success         = 0 // All requested removals succeeded
	UsageError      = 1 // Bad flags or no paths given
	InvalidConfig   = 2 // Configuration file invalid or missing
	SafetyViolation = 3 // Safety guard blocked a removal target
	RemovalFailed   = 4 // At least one removal terminated with an error
)
