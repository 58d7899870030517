package types

// Service defines the interface for modelcast services. Services are
// registered at startup, initialized once, and accessed by the CLI commands
// during execution.
type Service interface {
	Name() string
	Initialize() error
}
