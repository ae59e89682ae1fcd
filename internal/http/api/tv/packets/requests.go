package packets

// REQUESTS FOR /api/tv/qibla/*
type LocationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

type MotionRequest struct {
	Granted *bool `json:"granted" binding:"required"`
}

type HeadingRequest struct {
	Kind    string   `json:"kind" binding:"required"`
	Degrees *float64 `json:"degrees" binding:"required"`
}

// REQUESTS FOR /api/tv/theme
type ThemeRequest struct {
	Client string `json:"client" binding:"required"`
	Theme  string `json:"theme" binding:"required"`
}
