package models

import "time"

// AttendanceRecord is one presence/absence fact for a person on a date.
type AttendanceRecord struct {
	ID       int64     `db:"id" json:"id"`
	PersonID int64     `db:"person_id" json:"person_id"`
	Date     time.Time `db:"date" json:"date"`
	Present  bool      `db:"present" json:"present"`
}

// AbsenceReport is the verdict returned by the absence check.
type AbsenceReport struct {
	PersonID    int64  `json:"person_id"`
	Name        string `json:"name"`
	Absences    int    `json:"absences"`
	MaxAbsences int    `json:"max_absences"`
	WithinLimit bool   `json:"within_limit"`
}
