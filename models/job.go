package models

// Job is a game queued for feature computation by the server.
type Job struct {
	ID   string `json:"id"`
	Game Game   `json:"game"`
}
