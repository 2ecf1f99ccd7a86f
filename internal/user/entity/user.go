package entity

import "time"

// User represents an account row in the `users` table. The password
// hash never leaves the server.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Avatar       string    `db:"avatar" json:"avatar"`
	CreatedAt    time.Time `db:"created_at" json:"date"`
}
