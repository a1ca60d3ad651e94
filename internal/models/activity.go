package models

// Activity is one editor heartbeat: what the user is touching right now.
type Activity struct {
	Language string `json:"language"`
	File     string `json:"file"`
}
