// Package model defines the session memory data types.
package model

import "time"

// Entry is one version of a session value. Writing a key again creates a
// new version that supersedes the previous one.
type Entry struct {
	ID         string     `json:"id"`
	Session    string     `json:"session"`
	Key        string     `json:"key"`
	Value      string     `json:"value"`
	Version    int        `json:"version"`
	Supersedes string     `json:"supersedes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}
