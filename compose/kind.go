package compose

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned for a kind name or value outside the
	// enumeration.
	ErrUnknownKind = errors.New("compose: unknown transform kind")

	// ErrDuplicateKind is returned by Queue.Validate when a kind appears
	// more than once.
	ErrDuplicateKind = errors.New("compose: duplicate transform kind")
)

// Kind tags an elementary transform.
type Kind uint8

// Transform kinds.
const (
	Projection Kind = iota + 1
	Scale
	Translation
	Rotation
	PivotRecenter
)

var kindNames = [...]string{
	Projection:    "projection",
	Scale:         "scale",
	Translation:   "translation",
	Rotation:      "rotation",
	PivotRecenter: "pivot",
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= Projection && k <= PivotRecenter
}

// String returns the lower-case name used in queues and config files.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind returns the kind with the given name. Matching ignores case and
// surrounding space, and "pivot-recenter" is accepted for PivotRecenter.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "pivot-recenter" {
		return PivotRecenter, nil
	}
	for k := Projection; k <= PivotRecenter; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
