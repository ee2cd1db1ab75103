package model

import (
	"encoding/json"
	"time"
)

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// MedicalHistory is a patient's self-reported medical background.
type MedicalHistory struct {
	ChronicDiseases    []string `json:"chronic_diseases"`
	Allergies          []string `json:"allergies"`
	CurrentMedications []string `json:"current_medications"`
	PreviousSurgeries  []string `json:"previous_surgeries"`
	FamilyHistory      []string `json:"family_history"`
	Notes              *string  `json:"notes,omitempty"`
}

// EmergencyContact is who to call when the patient cannot answer.
type EmergencyContact struct {
	Name             string  `json:"name"`
	Relationship     string  `json:"relationship"`
	PhoneNumber      string  `json:"phone_number"`
	AlternativePhone *string `json:"alternative_phone,omitempty"`
}

// Patient is a user with role patient plus personal and medical data.
type Patient struct {
	User
	DateOfBirth      *time.Time        `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender           *string           `json:"gender,omitempty" db:"gender"`
	BloodType        *string           `json:"blood_type,omitempty" db:"blood_type"`
	MedicalHistory   *MedicalHistory   `json:"medical_history,omitempty" db:"-"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty" db:"-"`

	// Raw JSONB payloads, decoded by the repository.
	MedicalHistoryRaw   json.RawMessage `json:"-" db:"medical_history"`
	EmergencyContactRaw json.RawMessage `json:"-" db:"emergency_contact"`
}

// Age returns the patient's age in whole years, or -1 when unknown.
func (p *Patient) Age() int {
	if p.DateOfBirth == nil {
		return -1
	}
	now := time.Now()
	age := now.Year() - p.DateOfBirth.Year()
	if now.YearDay() < p.DateOfBirth.YearDay() {
		age--
	}
	return age
}

// UpdatePatientProfileRequest updates a patient's own profile.
type UpdatePatientProfileRequest struct {
	FullName         *string           `json:"full_name" binding:"omitempty,min=2,max=100"`
	DateOfBirth      *string           `json:"date_of_birth"`
	Gender           *string           `json:"gender" binding:"omitempty,oneof=male female other"`
	BloodType        *string           `json:"blood_type" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	MedicalHistory   *MedicalHistory   `json:"medical_history"`
	EmergencyContact *EmergencyContact `json:"emergency_contact"`
}
