package packets

// RESPONSES FOR /api/admin/timetable/*

type UploadResponse struct {
	Days      int    `json:"days"`
	FirstDate string `json:"first_date"`
	LastDate  string `json:"last_date"`
	Archive   string `json:"archive"`
	Stored    int    `json:"stored"`
}

type ReloadResponse struct {
	Reloading bool `json:"reloading"`
}
