// Package interaction resolves which interactables each interactor can
// hover and select every tick, and arbitrates between competing interactors.
package interaction

import (
	"errors"
	"fmt"
	"strings"
)

// LayerMask filters interactors against interactables. It is independent
// of the scene's physics layers.
type LayerMask uint32

const (
	LayerNothing    LayerMask = 0
	LayerDefault    LayerMask = 1
	LayerEverything LayerMask = ^LayerMask(0)
)

// Overlaps reports whether the two masks share a layer. Everything matches
// any mask, including Nothing.
func (m LayerMask) Overlaps(other LayerMask) bool {
	if m == LayerEverything || other == LayerEverything {
		return true
	}
	return m&other != 0
}

// Kind is the interactor family.
type Kind int

const (
	KindDirect Kind = iota
	KindRay
	KindSocket
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindRay:
		return "ray"
	case KindSocket:
		return "socket"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "direct":
		return KindDirect, nil
	case "ray":
		return KindRay, nil
	case "socket":
		return KindSocket, nil
	}
	return KindDirect, fmt.Errorf("unknown interactor kind %q", s)
}

// Sentinel errors returned by registration.
var (
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
	ErrNoResolver        = errors.New("interactor has no resolver")
)
