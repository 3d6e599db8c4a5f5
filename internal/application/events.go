package application

import "time"

// UsersCached is published after a population batch has been committed.
type UsersCached struct {
	Users    []UserDTO `json:"users"`
	Inserted int       `json:"inserted"`
	Updated  int       `json:"updated"`
	CachedAt time.Time `json:"cachedAt"`
}
