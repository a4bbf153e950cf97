package model

type Admin struct {
	Base
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PatientLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by both patient and admin logins.
type LoginResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}
