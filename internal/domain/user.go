package domain

import "time"

// Role - роль пользователя
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User - учётная запись оператора
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Ref returns the public projection joined into station responses.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserRef - краткие данные владельца (name + email)
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Actor - аутентифицированный пользователь, выполняющий операцию
type Actor struct {
	UserID string
	Role   Role
}

// CanModify reports whether the actor may mutate the station.
func (a Actor) CanModify(s *Station) bool {
	return a.Role == RoleAdmin || s.IsOwnedBy(a.UserID)
}
