package entity

import (
	"time"
	"unicode/utf8"
)

// Column limits of the users table.
const (
	MaxNameLen    = 50
	MaxEmailLen   = 100
	MaxPhoneLen   = 15
	MaxAddressLen = 250
	MaxPictureLen = 250
)

// User is one directory entry.
//
// ID is a local cache handle assigned when the record is first built; it is
// never derived from upstream data and never changes afterwards. Every other
// field is replaced wholesale on upsert.
type User struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	DateOfBirth    time.Time
	Phone          string
	Address        string
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clamp truncates every text field to its column limit.
func (u *User) Clamp() {
	u.FirstName = truncate(u.FirstName, MaxNameLen)
	u.LastName = truncate(u.LastName, MaxNameLen)
	u.Email = truncate(u.Email, MaxEmailLen)
	u.Phone = truncate(u.Phone, MaxPhoneLen)
	u.Address = truncate(u.Address, MaxAddressLen)
	u.ProfilePicture = truncate(u.ProfilePicture, MaxPictureLen)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
