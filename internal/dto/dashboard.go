package dto

import "time"

// StatusCount pairs an enquiry status with its current count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// CourseCount aggregates enquiries per catalog course.
type CourseCount struct {
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	School     string `json:"school"`
	Count      int    `json:"count"`
}

// VisitSummary aggregates the campus visit pipeline.
type VisitSummary struct {
	Requested    int `json:"requested"`
	Completed    int `json:"completed"`
	PendingTours int `json:"pending_tours"`
}

// AdminDashboardResponse is the aggregate view served to admins.
type AdminDashboardResponse struct {
	TotalEnquiries       int           `json:"total_enquiries"`
	StatusCounts         []StatusCount `json:"status_counts"`
	CourseCounts         []CourseCount `json:"course_counts"`
	AvailableCounsellors int           `json:"available_counsellors"`
	TotalCounsellors     int           `json:"total_counsellors"`
	Visits               VisitSummary  `json:"visits"`
	AverageWaitMinutes   float64       `json:"average_wait_minutes"`
	ConversionRate       float64       `json:"conversion_rate"`
	GeneratedAt          time.Time     `json:"generated_at"`
}
