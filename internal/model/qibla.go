package model

// GeoPoint is a coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

type CompassMode string

const (
	StaticArrow CompassMode = "static-arrow"
	LiveCompass CompassMode = "live-compass"
)

// Angles are the two rotations a compass face needs.
type Angles struct {
	Dial   float64     `json:"dial_rotation"`
	Needle float64     `json:"needle_rotation"`
	Mode   CompassMode `json:"mode"`
}

// HeadingKind records which sensor field a heading came from.
type HeadingKind string

const (
	// AbsoluteCompassHeading is clockwise from north (webkitCompassHeading).
	AbsoluteCompassHeading HeadingKind = "absolute-compass-heading"
	// DeviceRotationAngle is the generic orientation alpha, counter-clockwise.
	DeviceRotationAngle HeadingKind = "device-rotation-angle"
)

func (k HeadingKind) Valid() bool {
	return k == AbsoluteCompassHeading || k == DeviceRotationAngle
}

type Heading struct {
	Kind    HeadingKind `json:"kind"`
	Degrees float64     `json:"degrees"`
}

// Permission is the state of a user-gated input (location, motion).
type Permission string

const (
	PermissionUnrequested Permission = "unrequested"
	PermissionPending     Permission = "pending"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
)

type CompassState struct {
	Bearing       *float64    `json:"bearing"`
	Cardinal      string      `json:"cardinal"`
	Location      *GeoPoint   `json:"location,omitempty"`
	DeviceHeading *float64    `json:"device_heading"`
	HeadingKind   HeadingKind `json:"heading_kind,omitempty"`
	LiveMode      bool        `json:"live_mode"`
	Angles        Angles      `json:"angles"`
	LocationState Permission  `json:"location_state"`
	MotionState   Permission  `json:"motion_state"`
	Status        string      `json:"status"`
}
