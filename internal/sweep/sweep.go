// Package sweep defines the closed set of simulation sweep kinds and the
// behavior that varies by kind.
package sweep

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the independent variable of a sweep.
type Kind string

const (
	// Braking sweeps vary slip ratio.
	Braking Kind = "braking"
	// Cornering sweeps vary slip angle.
	Cornering Kind = "cornering"
	// Freerolling sweeps vary slip angle at zero drive torque.
	Freerolling Kind = "freerolling"
)

// ErrUnknownSweepType reports a sweep-type token outside the closed set.
var ErrUnknownSweepType = errors.New("unknown sweep type")

// Kinds returns every supported sweep kind.
func Kinds() []Kind {
	return []Kind{Braking, Cornering, Freerolling}
}

// ParseKind resolves a case-insensitive sweep-type token.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Braking:
		return Braking, nil
	case Cornering:
		return Cornering, nil
	case Freerolling:
		return Freerolling, nil
	}
	return "", fmt.Errorf("%w: %q (valid: braking, cornering, freerolling)", ErrUnknownSweepType, s)
}

// Title returns the title-cased token used in solver folder templates and
// report file names, e.g. "Braking".
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

func (k Kind) String() string { return string(k) }
