package session

import (
	"context"
)

// Registry supplies the wallet reference and bet bounds for a session.
// The engine only ever resolves; creation and listing belong to the
// catalog API.
type Registry interface {
	Resolve(ctx context.Context, ref string) (*Session, error)
}

// Repository extends the registry with catalog persistence operations
type Repository interface {
	Registry
	Create(ctx context.Context, s *Session) error
}

// ErrSessionNotFound indicates an unresolvable session reference
type ErrSessionNotFound struct {
	Ref string
}

func (e ErrSessionNotFound) Error() string {
	return "session not found: " + e.Ref
}

// Is implements the errors.Is interface for ErrSessionNotFound
func (e ErrSessionNotFound) Is(target error) bool {
	t, ok := target.(ErrSessionNotFound)
	if !ok {
		return false
	}
	if t.Ref == "" {
		return true
	}
	return e.Ref == t.Ref
}

// ErrDuplicateSession indicates session reference uniqueness violation
type ErrDuplicateSession struct {
	Ref string
}

func (e ErrDuplicateSession) Error() string {
	return "session already exists: " + e.Ref
}
