package model

import "time"

// Patient is the patient record consumed by offer evaluation. SkinType,
// Allergies and ChronicConditions double as ad-hoc tags for patient_tag
// conditions.
type Patient struct {
	ID                string     `json:"id" db:"id"`
	FirstName         string     `json:"firstName" db:"first_name"`
	LastName          string     `json:"lastName" db:"last_name"`
	Phone             string     `json:"phone" db:"phone"`
	Email             string     `json:"email,omitempty" db:"email"`
	DateOfBirth       *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender            string     `json:"gender" db:"gender"`
	SkinType          int        `json:"skinType,omitempty" db:"skin_type"` // Fitzpatrick scale 1-6
	Allergies         []string   `json:"allergies,omitempty" db:"allergies"`
	ChronicConditions []string   `json:"chronicConditions,omitempty" db:"chronic_conditions"`
	Notes             string     `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
}
