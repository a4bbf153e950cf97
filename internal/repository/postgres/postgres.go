package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/clinic-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	db *sqlx.DB
}

type diseaseRepository struct {
	db *sqlx.DB
}

type assistantRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type adminRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewDiseaseRepository(db *sqlx.DB) repository.DiseaseRepository {
	return &diseaseRepository{db: db}
}

func NewAssistantRepository(db *sqlx.DB) repository.AssistantRepository {
	return &assistantRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewAdminRepository(db *sqlx.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
