package models

// Counsellor is a staff member who runs admission counselling sessions.
//
// IsAvailable is false exactly while CurrentEnquiryID points at an enquiry in
// ASSIGNED or ONGOING state. At most one counsellor holds a given enquiry id.
type Counsellor struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	SpecializedSchools []string `json:"specialized_schools"`
	IsAvailable        bool     `json:"is_available"`
	CurrentEnquiryID   string   `json:"current_enquiry_id,omitempty"`
}

// Serves reports whether the counsellor covers the given school code.
func (c Counsellor) Serves(school string) bool {
	for _, s := range c.SpecializedSchools {
		if s == school {
			return true
		}
	}
	return false
}
