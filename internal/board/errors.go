package board

import (
	"errors"
	"fmt"
	"strings"
)

// Failure taxonomy. Every mutation either fully succeeds or fails with one
// of these before the caller-visible snapshot changes; nothing is retried
// or swallowed.
var (
	// ErrNotFound reports a selector that matched zero cards.
	ErrNotFound = errors.New("no card matched the selector")
	// ErrAmbiguous is the target of errors.Is for AmbiguousError values.
	ErrAmbiguous = errors.New("ambiguous selector")
	// ErrInvalidState reports a state label outside the recognized set.
	ErrInvalidState = errors.New("unsupported card state")
	// ErrUnderflow reports a counter spend that would leave a negative balance.
	ErrUnderflow = errors.New("counter underflow")
	// ErrBadDestination reports a move or attach target that is not a sequence.
	ErrBadDestination = errors.New("destination is not a sequence")
	// ErrHasAttachments reports a remove attempted while attachments remain.
	ErrHasAttachments = errors.New("card still lists attachments")
	// ErrNotInCatalog reports a title absent from the external catalog.
	ErrNotInCatalog = errors.New("title not found in catalog")
)

// CardRef identifies one selector candidate for error reporting.
type CardRef struct {
	Title string
	ID    string
	Path  Path
}

func (r CardRef) String() string {
	return fmt.Sprintf("%s (id=%s) @ %s", r.Title, r.ID, r.Path)
}

// AmbiguousError reports a selector that matched more than one card. The
// candidates appear in the same ranked order the selector returned them.
type AmbiguousError struct {
	Candidates []CardRef
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	b.WriteString("ambiguous selector; matches:")
	for _, c := range e.Candidates {
		b.WriteString("\n- ")
		b.WriteString(c.String())
	}
	return b.String()
}

// Is lets errors.Is(err, ErrAmbiguous) match an AmbiguousError.
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}
