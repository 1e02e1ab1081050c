package types

// Tracked artifact layout. These are the only paths the publish step
// stages; everything else in the worktree is left alone.
const (
	DataDir    = "data"
	ReadmeFile = "README.md"
)
