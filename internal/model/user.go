package model

import "time"

// User represents an application account as stored in the `users` table.
// Name is unique across all accounts; the unique key on the column is the
// only arbiter of duplication. Only the bcrypt hash of the password is
// persisted, never the raw credential.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – unique account name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PublicUser is the caller-facing view of an account. The password hash is
// never echoed; handlers convert User to PublicUser before responding.
type PublicUser struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Public returns the caller-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name}
}
