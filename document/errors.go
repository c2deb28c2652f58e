package document

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIntegrity is returned when a document disagrees with the frame rebuilt from it.
var ErrIntegrity = errors.New("document integrity check failed")

// MissingPropertyError reports required properties absent from a document.
type MissingPropertyError struct {
	Names []string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing properties: %s", strings.Join(e.Names, ", "))
}

// IntegrityError reports a document property that does not match the rebuilt frame.
type IntegrityError struct {
	Property string
	Document uint16
	Frame    uint16
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("invalid %s: document has %d, frame has %d", e.Property, e.Document, e.Frame)
}

// Is reports whether target is ErrIntegrity.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}
