package packets

import "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"

// RESPONSES FOR /api/tv/qibla
type QiblaResponse struct {
	Location model.GeoPoint `json:"location"`
	Bearing  float64        `json:"bearing"`
	Cardinal string         `json:"cardinal"`
	Heading  *float64       `json:"heading"`
	Angles   model.Angles   `json:"angles"`
}

type CompassResponse struct {
	Compass model.CompassState `json:"compass"`
}

// RESPONSES FOR /api/tv/theme
type ThemeResponse struct {
	Client string `json:"client"`
	Theme  string `json:"theme"`
}
