// internal/domain/user.go
package domain

import "time"

// User represents an account holder.
type User struct {
	ID           int64     `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	Email        string    `db:"email" json:"email"`           // Unique login email
	Username     string    `db:"username" json:"username"`     // Unique username
	FirstName    string    `db:"first_name" json:"first_name"` // Display first name
	LastName     string    `db:"last_name" json:"last_name"`   // Display last name
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	PasswordHash string    `db:"password_hash" json:"-"` // bcrypt hash, never serialized
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance.
func NewUser(email, username, firstName, lastName, phoneNumber, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Email:        email,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PhoneNumber:  phoneNumber,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
