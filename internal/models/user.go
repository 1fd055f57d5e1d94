package models

// User represents a User node in the graph. Password holds the bcrypt hash
// and is never serialized.
type User struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"-"`
}

// AuthUser is the public projection of a User returned to callers after
// registration or login. The field set is an explicit allow-list: the
// password hash has no representation here and cannot leak.
type AuthUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}
