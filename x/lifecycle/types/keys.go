package types

const (
	// ModuleName is the name of the lifecycle policy
	ModuleName = "lifecycle"
)
