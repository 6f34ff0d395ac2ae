package documents

import (
	"errors"

	"github.com/pluqqy/tabpad/pkg/models"
)

// Document set errors
var (
	// ErrNotFound is returned by lookups. Mutations on an unknown id are
	// silent no-ops and never return it.
	ErrNotFound = errors.New("document not found")
	// ErrAmbiguousReference is returned by Find when a reference matches more than one document
	ErrAmbiguousReference = errors.New("reference matches more than one document")
	// ErrInvalidLanguage is returned by SetLanguage for tags outside the supported set
	ErrInvalidLanguage = models.ErrInvalidLanguage
	// ErrPersistenceUnavailable wraps store failures. The in-memory state is kept.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrMalformedState is returned by Decode for blobs that cannot be restored
	ErrMalformedState = errors.New("malformed persisted state")
)
