// Package catalog holds the static reference data the engine is seeded from:
// the course list with owning school codes, the counsellor roster, and the
// default user accounts. Read-only at runtime.
package catalog

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/admitdesk/admission-api/internal/models"
)

var courses = []models.Course{
	// School of Engineering & Technology
	{ID: "cse", Name: "B.Tech Computer Science & Engineering", School: "SOET"},
	{ID: "cse-ai", Name: "B.Tech CSE (AI & ML)", School: "SOET"},
	{ID: "bca-ds", Name: "BCA (AI & Data Science)", School: "SOET"},

	// School of Management & Commerce
	{ID: "bba", Name: "BBA (Digital Marketing/HR/Finance)", School: "SOMC"},
	{ID: "mba", Name: "MBA (Business Analytics/Entrepreneurship)", School: "SOMC"},
	{ID: "bcom", Name: "B.Com (Hons.)", School: "SOMC"},

	// School of Legal Studies
	{ID: "ba-llb", Name: "B.A. LL.B. (Hons.)", School: "SOLS"},
	{ID: "llb", Name: "LL.B. (Hons.)", School: "SOLS"},

	// School of Medical & Allied Sciences
	{ID: "bpharm", Name: "Bachelor of Pharmacy (B.Pharm)", School: "SMAS"},
	{ID: "bpt", Name: "Bachelor of Physiotherapy (BPT)", School: "SMAS"},

	// School of Architecture & Design
	{ID: "barch", Name: "Bachelor of Architecture (B.Arch)", School: "SOAD"},
	{ID: "bdes", Name: "Bachelor of Design (B.Des)", School: "SOAD"},
}

var seedCounsellors = []models.Counsellor{
	{ID: "c1", Name: "Dr. Amit Sharma", SpecializedSchools: []string{"SOET", "SOAD"}, IsAvailable: true},
	{ID: "c2", Name: "Prof. Rita Gupta", SpecializedSchools: []string{"SOMC", "SOLS"}, IsAvailable: true},
	{ID: "c3", Name: "Dr. S. K. Verma", SpecializedSchools: []string{"SMAS"}, IsAvailable: true},
}

type seedAccount struct {
	email        string
	password     string
	name         string
	role         models.UserRole
	counsellorID string
}

var seedAccounts = []seedAccount{
	{email: "admin@krmu.edu", password: "admin", name: "Dean of Admissions", role: models.RoleAdmin},
	{email: "c1@krmu.edu", password: "c1", name: "Dr. Amit Sharma", role: models.RoleCounsellor, counsellorID: "c1"},
	{email: "c2@krmu.edu", password: "c2", name: "Prof. Rita Gupta", role: models.RoleCounsellor, counsellorID: "c2"},
	{email: "guide@krmu.edu", password: "guide", name: "Campus Guide Team", role: models.RoleGuide},
	{email: "parent@example.com", password: "parent", name: "Parent Demo", role: models.RoleParent},
}

// Provider exposes the catalog to the engine.
type Provider struct {
	byID map[string]models.Course
}

// NewProvider builds a Provider with an indexed course lookup.
func NewProvider() *Provider {
	byID := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	return &Provider{byID: byID}
}

// ListCourses returns the full course catalog in declaration order.
func (p *Provider) ListCourses() []models.Course {
	out := make([]models.Course, len(courses))
	copy(out, courses)
	return out
}

// CourseByID looks up a course; ok is false for ids outside the catalog.
func (p *Provider) CourseByID(id string) (models.Course, bool) {
	c, ok := p.byID[id]
	return c, ok
}

// SchoolByCourse returns the owning school code for a course id.
func (p *Provider) SchoolByCourse(id string) (string, bool) {
	c, ok := p.byID[id]
	if !ok {
		return "", false
	}
	return c.School, true
}

// ListSeedCounsellors returns the initial counsellor roster.
func (p *Provider) ListSeedCounsellors() []models.Counsellor {
	out := make([]models.Counsellor, len(seedCounsellors))
	copy(out, seedCounsellors)
	for i := range out {
		schools := make([]string, len(seedCounsellors[i].SpecializedSchools))
		copy(schools, seedCounsellors[i].SpecializedSchools)
		out[i].SpecializedSchools = schools
	}
	return out
}

// ListSeedUsers returns the default accounts with bcrypt-hashed credentials.
func (p *Provider) ListSeedUsers() []models.User {
	out := make([]models.User, 0, len(seedAccounts))
	for _, a := range seedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			// bcrypt only fails on invalid cost; the seed passwords are fixed.
			continue
		}
		out = append(out, models.User{
			Email:        a.email,
			PasswordHash: string(hash),
			FullName:     a.name,
			Role:         a.role,
			CounsellorID: a.counsellorID,
		})
	}
	return out
}
