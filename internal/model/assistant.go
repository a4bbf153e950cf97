package model

type Assistant struct {
	Base
	Name         string `json:"name" db:"name"`
	PasswordHash string `json:"-" db:"password_hash"`
}

type CreateAssistantRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type UpdateAssistantRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
