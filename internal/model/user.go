package model

// Role determines which views an identity may open.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RolePatient Role = "Patient"
)

// User is a login credential. Users are created at seed time and are
// immutable during normal operation. Passwords are plaintext from the
// static seed list; this system is explicitly not security-hardened.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`

	// PatientID links a Patient-role user to its patient record.
	PatientID string `json:"patientId,omitempty"`
}
