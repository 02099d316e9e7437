package domain

import "errors"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidImport = errors.New("invalid file format")

// User is the aggregate root of the store: every certification lives inside
// its owning user record, and the whole collection is persisted as a single
// document under the "users" key.
type User struct {
	Username       string          `json:"username"`
	PasswordHash   string          `json:"password"`
	Role           string          `json:"role"`
	Certifications []Certification `json:"certifications"`
	Nickname       string          `json:"nickname,omitempty"`
	Image          string          `json:"image,omitempty"`
	CreatedDate    string          `json:"createdDate,omitempty"`
}

// Certification returns the certification with the given id, or nil.
func (u *User) Certification(id string) *Certification {
	for i := range u.Certifications {
		if u.Certifications[i].ID == id {
			return &u.Certifications[i]
		}
	}
	return nil
}
