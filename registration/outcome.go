package registration

import "fmt"

// ErrorKind classifies a rejection so callers can branch without matching
// on message text.
type ErrorKind string

const (
	MissingField   ErrorKind = "missing_field"
	InvalidFormat  ErrorKind = "invalid_format"
	TooShort       ErrorKind = "too_short"
	DuplicateEmail ErrorKind = "duplicate_email"
	StorageFailure ErrorKind = "storage_failure"
)

// FieldError is a single human-readable rejection reason with its kind.
type FieldError struct {
	Kind    ErrorKind
	Message string
}

// Outcome is the result of a registration attempt: empty means the user was
// created, otherwise it holds the ordered rejection reasons.
type Outcome []FieldError

func (o Outcome) OK() bool {
	return len(o) == 0
}

// Messages returns the rejection reasons in order.
func (o Outcome) Messages() []string {
	if len(o) == 0 {
		return nil
	}
	messages := make([]string, len(o))
	for i, fieldErr := range o {
		messages[i] = fieldErr.Message
	}
	return messages
}

// Recoverable reports whether every error is user-correctable, as opposed
// to a storage failure.
func (o Outcome) Recoverable() bool {
	for _, fieldErr := range o {
		if fieldErr.Kind == StorageFailure {
			return false
		}
	}
	return true
}

func storageFailure(err error) FieldError {
	return FieldError{Kind: StorageFailure, Message: fmt.Sprintf("database error: %v", err)}
}
