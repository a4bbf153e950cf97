package model

type Doctor struct {
	Base
	Name           string `json:"name" db:"name"`
	Specialization string `json:"specialization" db:"specialization"`
	ContactInfo    string `json:"contact_info" db:"contact_info"`
}

type CreateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	ContactInfo    string `json:"contact_info"`
}

type UpdateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	ContactInfo    string `json:"contact_info"`
}
