package models

import "time"

// Role is the closed set of registrant roles.
type Role string

const (
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleAdmin   Role = "Admin"
)

// Valid returns true when the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// Person represents one registrant: a student, a teacher or administrative staff.
// ID is zero until the record has been persisted.
type Person struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	NationalID string    `db:"national_id" json:"national_id"`
	Role       Role      `db:"role" json:"role"`
	Course     string    `db:"course" json:"course,omitempty"`
	Department string    `db:"department" json:"department,omitempty"`
	Section    string    `db:"sec" json:"section,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Persisted reports whether the person has been saved and assigned an identity.
func (p *Person) Persisted() bool {
	return p.ID != 0
}

// PersonFilter encapsulates allowed search parameters for listing persons.
type PersonFilter struct {
	Search    string
	Role      *Role
	Course    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
