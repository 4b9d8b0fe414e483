package model

import "time"

// User represents an application account as stored in the `users`
// table. Each field corresponds to a column in the database. The
// json tags are omitted here because these structs are used
// internally by the repository layer; handlers define separate
// response types with appropriate JSON tags.
//
// Accounts are created once at signup and never mutated afterwards:
// there are no profile fields, and account deletion is not exposed.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password. The plain password is
//                 never stored or returned anywhere.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
