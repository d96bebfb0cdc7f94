package models

// UserRole identifies which portal a user account belongs to.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleCounsellor UserRole = "COUNSELLOR"
	RoleGuide      UserRole = "GUIDE"
	RoleParent     UserRole = "PARENT"
)

// User is an authentication account. Email is the unique key
// (case-insensitive). CounsellorID links counsellor-role accounts to their
// roster entry. Role only ever moves one way: non-admin -> ADMIN.
//
// PasswordHash carries a JSON tag because the durable snapshot serializes
// users as JSON; API responses use UserInfo instead.
type User struct {
	Email        string   `json:"email"`
	PasswordHash string   `json:"password_hash,omitempty"`
	FullName     string   `json:"full_name"`
	Role         UserRole `json:"role"`
	CounsellorID string   `json:"counsellor_id,omitempty"`
}

// UserInfo is the credential-free view of an account returned by the API.
type UserInfo struct {
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Role         UserRole `json:"role"`
	CounsellorID string   `json:"counsellor_id,omitempty"`
}

// Info strips the credential from a user record.
func (u User) Info() UserInfo {
	return UserInfo{
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		CounsellorID: u.CounsellorID,
	}
}
