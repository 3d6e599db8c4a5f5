package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampTruncatesToColumnLimits(t *testing.T) {
	u := User{
		FirstName: strings.Repeat("a", 60),
		LastName:  "Doe",
		Email:     strings.Repeat("e", 120),
		Phone:     "+1 (555) 010-0000-1234",
		Address:   strings.Repeat("x", 300),
	}
	u.Clamp()

	assert.Len(t, u.FirstName, MaxNameLen)
	assert.Equal(t, "Doe", u.LastName)
	assert.Len(t, u.Email, MaxEmailLen)
	assert.Len(t, u.Phone, MaxPhoneLen)
	assert.Len(t, u.Address, MaxAddressLen)
}

func TestClampIsRuneSafe(t *testing.T) {
	u := User{FirstName: strings.Repeat("ö", 55)}
	u.Clamp()

	assert.Equal(t, strings.Repeat("ö", MaxNameLen), u.FirstName)
}
