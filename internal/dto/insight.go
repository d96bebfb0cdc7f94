package dto

import "time"

// TrendInsight is the advisory trend summary shown on the admin dashboard.
type TrendInsight struct {
	Summary     string    `json:"summary"`
	Fallback    bool      `json:"fallback"`
	GeneratedAt time.Time `json:"generated_at"`
}

// TalkingPoints are counsellor prompts for a specific course.
type TalkingPoints struct {
	CourseID   string   `json:"course_id"`
	CourseName string   `json:"course_name"`
	Points     []string `json:"points"`
	Fallback   bool     `json:"fallback"`
}
