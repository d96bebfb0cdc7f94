package models

import "time"

// EnquiryStatus tracks an enquiry through its counselling lifecycle.
type EnquiryStatus string

const (
	EnquiryPending   EnquiryStatus = "PENDING"
	EnquiryAssigned  EnquiryStatus = "ASSIGNED"
	EnquiryOngoing   EnquiryStatus = "ONGOING"
	EnquiryCompleted EnquiryStatus = "COMPLETED"
	// EnquiryCancelled is a declared terminal state with no trigger yet;
	// nothing in the engine sets it.
	EnquiryCancelled EnquiryStatus = "CANCELLED"
)

// EnquiryStatuses lists every status in declaration order.
var EnquiryStatuses = []EnquiryStatus{
	EnquiryPending,
	EnquiryAssigned,
	EnquiryOngoing,
	EnquiryCompleted,
	EnquiryCancelled,
}

// Category is the admission category declared on submission.
type Category string

const (
	CategoryGeneral Category = "GEN"
	CategoryOBC     Category = "OBC"
	CategorySCST    Category = "SC/ST"
	CategoryOther   Category = "OTHER"
)

// Enquiry is a single admission request submitted by a parent.
//
// CounsellorID is set only by the allocation engine while the status is
// ASSIGNED or ONGOING; it is retained on COMPLETED for history.
// VisitRequested and VisitCompleted are monotonic false -> true.
type Enquiry struct {
	ID                 string        `json:"id"`
	StudentName        string        `json:"student_name"`
	ParentName         string        `json:"parent_name"`
	LastSchoolAttended string        `json:"last_school_attended"`
	Address            string        `json:"address"`
	State              string        `json:"state"`
	Pincode            string        `json:"pincode"`
	Phone              string        `json:"phone"`
	Email              string        `json:"email"`
	CourseID           string        `json:"course_id"`
	Category           Category      `json:"category"`
	Marks12th          string        `json:"marks_12th"`
	GradMarks          string        `json:"grad_marks,omitempty"`
	Status             EnquiryStatus `json:"status"`
	CounsellorID       string        `json:"counsellor_id,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	SessionStartTime   *time.Time    `json:"session_start_time,omitempty"`
	SessionEndTime     *time.Time    `json:"session_end_time,omitempty"`
	VisitRequested     bool          `json:"visit_requested"`
	VisitCompleted     bool          `json:"visit_completed"`
}

// SubmitEnquiryRequest is the validated submission payload.
type SubmitEnquiryRequest struct {
	StudentName        string `json:"student_name" validate:"required"`
	ParentName         string `json:"parent_name" validate:"required"`
	LastSchoolAttended string `json:"last_school_attended" validate:"required"`
	Address            string `json:"address" validate:"required"`
	State              string `json:"state" validate:"required"`
	Pincode            string `json:"pincode" validate:"required,len=6,numeric"`
	Phone              string `json:"phone" validate:"required,min=10,max=15"`
	Email              string `json:"email" validate:"required,email"`
	CourseID           string `json:"course_id" validate:"required"`
	Category           string `json:"category" validate:"required,oneof=GEN OBC 'SC/ST' OTHER"`
	Marks12th          string `json:"marks_12th" validate:"required"`
	GradMarks          string `json:"grad_marks"`
}

// EnquiryFilter narrows enquiry listings.
type EnquiryFilter struct {
	Status       *EnquiryStatus
	CounsellorID string
	CourseID     string
	// VisitQueue selects enquiries with a requested but not yet completed
	// campus visit (the guide work queue).
	VisitQueue bool
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
