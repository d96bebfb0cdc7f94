// Package allocation implements the counsellor assignment pass: a greedy,
// single-pass, non-preemptive matching of pending enquiries to available
// counsellors. It never reshuffles existing assignments, so running it again
// on an unchanged state is a no-op.
package allocation

import (
	"sort"

	"github.com/admitdesk/admission-api/internal/models"
)

// CourseSchools resolves a course id to its owning school code.
type CourseSchools interface {
	SchoolByCourse(id string) (string, bool)
}

// Assign matches every allocatable PENDING enquiry to the first available
// counsellor (in roster order) specialized in the enquiry's school. Pending
// enquiries are taken oldest first; createdAt ties keep their original
// insertion order. Enquiries whose course id is unknown to the catalog are
// skipped, and a blocked school never holds up a later enquiry for a
// different school.
//
// Both slices are mutated in place. The return value is the number of
// assignments made in this pass.
func Assign(enquiries []models.Enquiry, counsellors []models.Counsellor, courses CourseSchools) int {
	pending := make([]int, 0, len(enquiries))
	for i := range enquiries {
		if enquiries[i].Status == models.EnquiryPending {
			pending = append(pending, i)
		}
	}

	// Oldest first; SliceStable keeps insertion order for equal timestamps.
	sort.SliceStable(pending, func(a, b int) bool {
		return enquiries[pending[a]].CreatedAt.Before(enquiries[pending[b]].CreatedAt)
	})

	assigned := 0
	for _, ei := range pending {
		enq := &enquiries[ei]

		school, ok := courses.SchoolByCourse(enq.CourseID)
		if !ok {
			continue
		}

		for ci := range counsellors {
			cons := &counsellors[ci]
			if !cons.IsAvailable || !cons.Serves(school) {
				continue
			}

			enq.Status = models.EnquiryAssigned
			enq.CounsellorID = cons.ID
			cons.IsAvailable = false
			cons.CurrentEnquiryID = enq.ID
			assigned++
			break
		}
	}

	return assigned
}
