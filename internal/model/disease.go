package model

import "github.com/google/uuid"

type Disease struct {
	Base
	Name     string    `json:"name" db:"name"`
	DoctorID uuid.UUID `json:"doctor_id" db:"doctor_id"`

	// DoctorName is populated by list queries joined to the doctors table.
	DoctorName string `json:"doctor_name,omitempty" db:"doctor_name"`
}

type CreateDiseaseRequest struct {
	Name     string `json:"name"`
	DoctorID string `json:"doctor_id"`
}

type UpdateDiseaseRequest struct {
	Name     string `json:"name"`
	DoctorID string `json:"doctor_id"`
}
