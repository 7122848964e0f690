// Package session owns the login/logout lifecycle and the three durable
// keys the web client historically used: the logged-in flag, the serialized
// user profile and the bearer token.
package session

import "github.com/ehmtravel/backoffice/internal"

type Session struct {
	IsLoggedIn bool
	User       *UserProfile
	Token      string
}

// LoggedOut is the only valid fallback when durable state is missing or
// unreadable; a partially populated session must never be observable.
func LoggedOut() Session {
	return Session{}
}

// UserProfile is the denormalized view of a backend user merged with its
// role. Derived on login, never independently owned.
type UserProfile struct {
	UserName    string   `json:"userName"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Email       string   `json:"email"`
	Branch      string   `json:"branch"`
	Department  string   `json:"department"`
	Permissions []string `json:"permissions"`
}

type RoleRef struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type LoginUser struct {
	Username   string   `json:"username"`
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Branch     string   `json:"branch"`
	Department string   `json:"department"`
	Role       *RoleRef `json:"role"`
}

// LoginData is the envelope payload of POST /auth/login.
type LoginData struct {
	User  *LoginUser `json:"user"`
	Token string     `json:"token"`
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	if d.Username == "" {
		return internal.NewValidationFieldError("username", "username is required", internal.ErrCodeMissingField)
	}
	if d.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeMissingField)
	}
	return nil
}

func profileFrom(u *LoginUser) *UserProfile {
	p := &UserProfile{
		UserName:   u.FullName,
		Username:   u.Username,
		Email:      u.Email,
		Branch:     u.Branch,
		Department: u.Department,
	}
	if u.Role != nil {
		p.Role = u.Role.Name
		p.Permissions = u.Role.Permissions
	}
	return p
}
