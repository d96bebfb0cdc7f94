package models

// Course is a static catalog entry. Read-only at runtime.
type Course struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	School string `json:"school"`
}
