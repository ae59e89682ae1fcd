package qibla

import (
	"errors"
	"fmt"
	"math"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

var (
	ErrHeadingKindMismatch = errors.New("heading kind differs from the one in use this session")
	ErrInvalidHeading      = errors.New("invalid heading")
)

// HeadingResolver turns raw sensor readings into clockwise compass headings.
// The first kind it accepts is locked in for the session so the two sensor
// semantics are never mixed.
type HeadingResolver struct {
	kind model.HeadingKind
}

// Kind is the locked-in kind, or "" before the first reading.
func (r *HeadingResolver) Kind() model.HeadingKind {
	return r.kind
}

// Resolve validates a reading and converts it to a clockwise heading from north.
// AbsoluteCompassHeading is used as-is; DeviceRotationAngle (alpha) grows
// counter-clockwise and is mirrored.
func (r *HeadingResolver) Resolve(raw model.Heading) (model.Heading, error) {
	if !raw.Kind.Valid() {
		return model.Heading{}, fmt.Errorf("%w: kind %q", ErrInvalidHeading, raw.Kind)
	}
	if math.IsNaN(raw.Degrees) || math.IsInf(raw.Degrees, 0) {
		return model.Heading{}, fmt.Errorf("%w: %v degrees", ErrInvalidHeading, raw.Degrees)
	}
	if r.kind != "" && r.kind != raw.Kind {
		return model.Heading{}, fmt.Errorf("%w: have %s, got %s", ErrHeadingKindMismatch, r.kind, raw.Kind)
	}
	r.kind = raw.Kind

	deg := Normalize360(raw.Degrees)
	if raw.Kind == model.DeviceRotationAngle {
		deg = Normalize360(360 - deg)
	}
	return model.Heading{Kind: raw.Kind, Degrees: deg}, nil
}

// Reset forgets the locked kind, e.g. when motion access is revoked.
func (r *HeadingResolver) Reset() {
	r.kind = ""
}
