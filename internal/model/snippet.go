// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data. The `json:"..."` struct tags
// tell encoding/json how each field is named when serialized.
package model

import "time"

// Snippet is a stored text unit with a title, content, and the username of
// the user who created it.
//
// Only Content is mutable after creation. Title and Creator are fixed when
// the snippet is created.
type Snippet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
