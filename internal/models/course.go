package models

// CourseState is the tri-state answer to "may students register into this course?".
type CourseState string

const (
	CourseStateOpen    CourseState = "open"
	CourseStateClosed  CourseState = "closed"
	CourseStateUnknown CourseState = "unknown"
)

// CourseStateFromFlag maps the stored open flag to a CourseState.
// A nil flag means no course row exists.
func CourseStateFromFlag(open *bool) CourseState {
	switch {
	case open == nil:
		return CourseStateUnknown
	case *open:
		return CourseStateOpen
	default:
		return CourseStateClosed
	}
}

// Course represents an offered course and its registration gate.
type Course struct {
	Name string `db:"course_name" json:"name"`
	Open bool   `db:"is_open" json:"open"`
}
