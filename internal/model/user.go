package model

import "time"

// Role enumerates the access levels known to the application.  Roles are
// stored as strings in the `users` table and embedded in JWT claims; the
// typed form keeps typos out of authorization checks.
type Role string

const (
	RoleAdmin   Role = "admin"   // full administrative access
	RoleManager Role = "manager" // club manager, may confirm bookings and edit slot grids
	RoleUser    Role = "user"    // regular end user
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// UserStatus marks whether an account may log in.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// Valid reports whether s is a known account status.
func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive
}

// User represents an application user record as stored in the `users`
// table.  Handlers define separate response types with JSON tags; the
// repository layer works with this struct directly.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address.
//  Phone        – unique phone number (login alternative to email).
//  PasswordHash – bcrypt hashed password.
//  Address      – postal address, optional.
//  Bio          – free-text bio, optional.
//  Role         – access level (admin, manager, user).
//  Status       – account status (active, inactive).
//  RegisteredAt – timestamp of registration.
type User struct {
	ID           uint64     // users.id
	Name         string     // users.name
	Email        string     // users.email
	Phone        string     // users.phone
	PasswordHash string     // users.password_hash
	Address      string     // users.address
	Bio          string     // users.bio
	Role         Role       // users.role
	Status       UserStatus // users.status
	RegisteredAt time.Time  // users.registered_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
