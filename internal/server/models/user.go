// Package models holds the persistent entities of the API server.
package models

import "time"

// User is an account row. HashedPassword holds a bcrypt hash and never
// leaves the server.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	CreatedAt      time.Time
}
