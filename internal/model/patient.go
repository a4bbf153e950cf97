package model

type Patient struct {
	Base
	FullName      string `json:"full_name" db:"full_name"`
	CNI           string `json:"cni" db:"cni"`
	Email         string `json:"email" db:"email"`
	PhoneNumber   string `json:"phone_number" db:"phone_number"`
	HealthProblem string `json:"health_problem" db:"health_problem"`
	DoctorName    string `json:"doctor_name" db:"doctor_name"`
	City          string `json:"city" db:"city"`
	Age           int    `json:"age" db:"age"`
	Gender        string `json:"gender" db:"gender"`
	PasswordHash  string `json:"-" db:"password_hash"`
}

type CreatePatientRequest struct {
	FullName      string `json:"full_name"`
	CNI           string `json:"cni"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	HealthProblem string `json:"health_problem"`
	DoctorName    string `json:"doctor_name"`
	City          string `json:"city"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Password      string `json:"password"`
}

type UpdatePatientRequest struct {
	FullName      string `json:"full_name"`
	CNI           string `json:"cni"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	HealthProblem string `json:"health_problem"`
	DoctorName    string `json:"doctor_name"`
	City          string `json:"city"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
}
