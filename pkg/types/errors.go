package types

import (
	"fmt"
	"strings"
)

// The discovery subsystem never swallows an error: every failure is raised to
// the caller as one of the typed errors below, carrying enough context
// (provider name, expected vs. actual shape) for a precise user-facing
// message. Only ConfigValidationError is fatal to the process, and only at
// startup.

// ConfigValidationError reports malformed or contradictory provider
// configuration detected while building the registry.
type ConfigValidationError struct {
	Provider string // offending provider name, if known
	Field    string // offending descriptor field, if any
	Message  string
}

// Error implements the error interface for ConfigValidationError.
func (e ConfigValidationError) Error() string {
	switch {
	case e.Provider != "" && e.Field != "":
		return fmt.Sprintf("invalid provider configuration for %q: %s: %s", e.Provider, e.Field, e.Message)
	case e.Provider != "":
		return fmt.Sprintf("invalid provider configuration for %q: %s", e.Provider, e.Message)
	default:
		return fmt.Sprintf("invalid provider configuration: %s", e.Message)
	}
}

// UnknownProviderError reports a lookup for a name absent from the resolved
// registry. Recoverable: the caller should re-list and re-prompt.
type UnknownProviderError struct {
	Provider string
	Known    []string
}

// Error implements the error interface for UnknownProviderError.
func (e UnknownProviderError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown provider %q", e.Provider)
	}
	return fmt.Sprintf("unknown provider %q (configured providers: %s)", e.Provider, strings.Join(e.Known, ", "))
}

// MissingCredentialError reports a discovery attempt against a provider that
// requires a credential when none was supplied. Raised before any network
// call is made.
type MissingCredentialError struct {
	Provider string
}

// Error implements the error interface for MissingCredentialError.
func (e MissingCredentialError) Error() string {
	return fmt.Sprintf("provider %q requires a credential but none was supplied", e.Provider)
}

// ProviderRequestError reports a network failure or a non-success HTTP status
// from a discovery call. Not retried internally: transient vs. permanent
// cannot be distinguished generically across providers.
type ProviderRequestError struct {
	Provider   string
	URL        string
	StatusCode int   // 0 when the request never completed
	Err        error // underlying transport error, if any
}

// Error implements the error interface for ProviderRequestError.
func (e ProviderRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %q returned HTTP %d for %s", e.Provider, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("provider %q request to %s failed: %v", e.Provider, e.URL, e.Err)
}

// Unwrap exposes the underlying transport error for errors.Is/As chains.
func (e ProviderRequestError) Unwrap() error {
	return e.Err
}

// ProviderResponseError reports a response that was received but is not
// interpretable under the descriptor's declared shape: invalid JSON, a
// response path that does not resolve to a list, or an entirely empty
// catalog.
type ProviderResponseError struct {
	Provider string
	Path     string // the models_response_path that failed to resolve, if relevant
	Expected string
	Actual   string
	Message  string
}

// Error implements the error interface for ProviderResponseError.
func (e ProviderResponseError) Error() string {
	msg := fmt.Sprintf("provider %q returned an unexpected response", e.Provider)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (path %q)", e.Path)
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	return msg
}
