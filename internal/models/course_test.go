package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseStateFromFlag(t *testing.T) {
	open := true
	closed := false

	assert.Equal(t, CourseStateOpen, CourseStateFromFlag(&open))
	assert.Equal(t, CourseStateClosed, CourseStateFromFlag(&closed))
	assert.Equal(t, CourseStateUnknown, CourseStateFromFlag(nil))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleTeacher.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("Janitor").Valid())
	assert.False(t, Role("").Valid())
}

func TestPersonPersisted(t *testing.T) {
	assert.False(t, (&Person{}).Persisted())
	assert.True(t, (&Person{ID: 1}).Persisted())
}
