// Package qibla computes the great-circle direction to the Kaaba and the
// rotations a compass face needs to show it.
package qibla

import (
	"math"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

// Kaaba is the single fixed target.
var Kaaba = model.GeoPoint{Lat: 21.4224779, Lon: 39.8251832}

var cardinals = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

// Normalize360 maps any real angle into [0, 360).
func Normalize360(d float64) float64 {
	return math.Mod(math.Mod(d, 360)+360, 360)
}

// InitialBearing is the initial great-circle bearing from one point to another
// on a spherical Earth, in degrees clockwise from true north.
func InitialBearing(from, to model.GeoPoint) float64 {
	phi1 := toRad(from.Lat)
	phi2 := toRad(to.Lat)
	dLambda := toRad(to.Lon - from.Lon)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	return Normalize360(toDeg(math.Atan2(y, x)))
}

// Bearing is the Qibla direction from a point.
func Bearing(from model.GeoPoint) float64 {
	return InitialBearing(from, Kaaba)
}

// Cardinal names the nearest of the 16 compass points.
func Cardinal(bearing float64) string {
	idx := int(math.Round(Normalize360(bearing)/22.5)) % 16
	return cardinals[idx]
}

// RenderAngles returns the dial and needle rotations. Without a heading the
// dial stays fixed and the needle points at the bearing; with one the dial
// counter-rotates so N/E/S/W stay true and the needle is relative to the device.
func RenderAngles(bearing float64, heading *float64) model.Angles {
	if heading == nil {
		return model.Angles{Dial: 0, Needle: bearing, Mode: model.StaticArrow}
	}
	return model.Angles{
		Dial:   -*heading,
		Needle: Normalize360(bearing - *heading),
		Mode:   model.LiveCompass,
	}
}

// Inputs is everything the compass state is derived from.
type Inputs struct {
	LocationState model.Permission
	Location      *model.GeoPoint
	MotionState   model.Permission
	Heading       *model.Heading // already resolved to a clockwise compass heading
}

// Calculator memoises the last bearing so repeated ticks with the same
// location skip the trigonometry. It is not safe for concurrent use.
type Calculator struct {
	last        *model.GeoPoint
	lastBearing float64
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Bearing(from model.GeoPoint) float64 {
	if c.last != nil && *c.last == from {
		return c.lastBearing
	}
	b := Bearing(from)
	p := from
	c.last = &p
	c.lastBearing = b
	return b
}

// Compass builds the compass state. The bearing stays nil unless a location
// has been granted; it never falls back to 0.
func (c *Calculator) Compass(in Inputs) model.CompassState {
	st := model.CompassState{
		Cardinal:      "--",
		LocationState: orUnrequested(in.LocationState),
		MotionState:   orUnrequested(in.MotionState),
		Angles:        model.Angles{Mode: model.StaticArrow},
	}

	if in.Heading != nil && st.MotionState == model.PermissionGranted {
		h := Normalize360(in.Heading.Degrees)
		st.DeviceHeading = &h
		st.HeadingKind = in.Heading.Kind
	}

	switch {
	case st.LocationState == model.PermissionGranted && in.Location != nil:
		b := c.Bearing(*in.Location)
		loc := *in.Location
		st.Bearing = &b
		st.Location = &loc
		st.Cardinal = Cardinal(b)
		st.Angles = RenderAngles(b, st.DeviceHeading)
		st.LiveMode = st.Angles.Mode == model.LiveCompass
		st.Status = "Qibla direction calculated."
	case st.LocationState == model.PermissionPending:
		st.Status = "Getting your location…"
	case st.LocationState == model.PermissionDenied:
		st.Status = "Location access was blocked. Please allow location and try again."
	default:
		st.Status = "Share your location to find the Qibla direction."
	}

	if st.MotionState == model.PermissionDenied {
		st.Status += " Motion permission was not granted."
	}
	return st
}

func orUnrequested(p model.Permission) model.Permission {
	if p == "" {
		return model.PermissionUnrequested
	}
	return p
}
