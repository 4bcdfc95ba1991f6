package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrTrackNotFound       = errors.New("track not found")
	ErrInvalidCommand      = errors.New("invalid command")
	ErrInvalidPayload      = errors.New("invalid port payload")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrStaticDirNotFound   = errors.New("static directory not found")
	ErrConfigNotFound      = errors.New("config file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// DeckError wraps an error with a user-friendly suggestion.
type DeckError struct {
	Err        error
	Suggestion string
}

func (e *DeckError) Error() string {
	return e.Err.Error()
}

func (e *DeckError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &DeckError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var deckErr *DeckError
	if errors.As(err, &deckErr) && deckErr.Suggestion != "" {
		return deckErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrInvalidCommand) || strings.Contains(errStr, "invalid command") {
		return "Commands are: play <id>, pause <id>, seek <id> <seconds>, loop on|off, top"
	}

	if errors.Is(err, ErrTrackNotFound) || strings.Contains(errStr, "track not found") {
		return "Pass track ids to 'patchdeck deck' or set bridge.tracks in the config"
	}

	if errors.Is(err, ErrStaticDirNotFound) {
		return "Build the UI bundle first or point server.static_dir at it"
	}

	if errors.Is(err, ErrUpstreamUnavailable) || strings.Contains(errStr, "connection refused") {
		return "Start the API server or change server.upstream"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'patchdeck config init' to create a configuration"
	}

	if strings.Contains(errStr, "address already in use") {
		return "Another process holds the port. Set PORT or server.port"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
