package model

// PublishResult represents the outcome of the publish step
type PublishResult struct {
	CommitHash string
	// Skipped is true when staging README.md and data/ produced no diff,
	// so no commit was created and nothing was pushed.
	Skipped bool
}
