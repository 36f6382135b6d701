package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCourseName(t *testing.T) {
	for _, ok := range []string{"CS 18000", "ma 26100", "PHYS17200", " ECE 20001H "} {
		assert.True(t, IsCourseName(ok), ok)
	}
	for _, bad := range []string{"", "CS", "18000", "CS 18000 extra", "CS-18000"} {
		assert.False(t, IsCourseName(bad), bad)
	}
}

func TestIsCampusEmail(t *testing.T) {
	assert.True(t, IsCampusEmail("pete@purdue.edu", "purdue.edu"))
	assert.True(t, IsCampusEmail("pete@CS.Purdue.edu", "@purdue.edu"))
	assert.False(t, IsCampusEmail("pete@notpurdue.edu", "purdue.edu"))
	assert.False(t, IsCampusEmail("pete", "purdue.edu"))
	assert.True(t, IsCampusEmail("anyone@example.com", ""))
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type body struct {
		Courses []string `validate:"dive,coursename"`
	}
	assert.NoError(t, v.Struct(body{Courses: []string{"CS 18000"}}))
	assert.Error(t, v.Struct(body{Courses: []string{"CS 18000", "nope"}}))
}
