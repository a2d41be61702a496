package model

import "time"

// User is a registered account.
//
// Users are created on registration and never updated or deleted afterwards.
// Username is unique across the store. The repositories back that with a
// unique index, on top of the lookup the registration workflow does first.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // bcrypt output, never serialized
	CreatedAt    time.Time `json:"createdAt"`
}
