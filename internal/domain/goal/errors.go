package goal

import "fmt"

// ErrUnknownPreset indicates no preset has the requested ID
type ErrUnknownPreset struct {
	ID         string
	Suggestion string
}

func (e *ErrUnknownPreset) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown goal preset: %s (did you mean %s?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("unknown goal preset: %s", e.ID)
}

// ErrInvalidPreset indicates a preset definition cannot be built
type ErrInvalidPreset struct {
	ID     string
	Reason string
}

func (e *ErrInvalidPreset) Error() string {
	return fmt.Sprintf("invalid goal preset %s: %s", e.ID, e.Reason)
}
