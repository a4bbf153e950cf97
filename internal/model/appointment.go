package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
)

// DoctorDailyCapacity is the maximum number of appointments a doctor may
// hold on a single calendar date.
const DoctorDailyCapacity = 10

type Appointment struct {
	Base
	PatientID       uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID        uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	Status          AppointmentStatus `json:"status" db:"status"`
}

type CreateAppointmentRequest struct {
	PatientID       string `json:"patient_id"`
	DoctorID        string `json:"doctor_id"`
	AppointmentDate string `json:"appointment_date"`
}

type UpdateAppointmentRequest struct {
	Status string `json:"status"`
}

// AppointmentFilters narrows list queries; zero values mean no filter.
type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
}

// DateCount is one row of the per-date booking histogram.
type DateCount struct {
	Date  time.Time `db:"date"`
	Count int       `db:"count"`
}
