package types

// RunMode is the mode the application runs in
type RunMode string

const (
	RunModeAPI   RunMode = "api"
	RunModeLocal RunMode = "local"
)
