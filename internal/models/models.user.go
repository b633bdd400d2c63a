// FilePath: internal/models/models.user.go
package models

// User is an account that owns sensors and projects. The password hash never
// leaves the storage layer; a loaded User carries no credential material.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	IsAdmin  bool   `json:"is_admin" db:"is_admin"`
}
