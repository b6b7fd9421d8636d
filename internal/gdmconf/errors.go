package gdmconf

import "errors"

// ConfigErrorKind classifies a config failure.
type ConfigErrorKind int

const (
	// SectionNotFound means the document has no [daemon] header.
	SectionNotFound ConfigErrorKind = iota + 1
	// DuplicateSection means the document has more than one [daemon] header.
	DuplicateSection
	// ReadFailed means the config file could not be read.
	ReadFailed
)

// String returns the kind name.
func (k ConfigErrorKind) String() string {
	switch k {
	case SectionNotFound:
		return "section not found"
	case DuplicateSection:
		return "duplicate section"
	case ReadFailed:
		return "read failed"
	default:
		return "unknown"
	}
}

// ConfigError is returned by Load and Rewrite.
type ConfigError struct {
	Kind    ConfigErrorKind
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is matches sentinel ConfigErrors by kind.
func (e *ConfigError) Is(target error) bool {
	var ce *ConfigError
	if !errors.As(target, &ce) {
		return false
	}
	return ce.Path == "" && ce.Message == "" && ce.Err == nil && ce.Kind == e.Kind
}

// Sentinel values for errors.Is comparisons.
var (
	ErrSectionNotFound  = &ConfigError{Kind: SectionNotFound}
	ErrDuplicateSection = &ConfigError{Kind: DuplicateSection}
	ErrReadFailed       = &ConfigError{Kind: ReadFailed}
)
