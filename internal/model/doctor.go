package model

import (
	"encoding/json"
	"time"
)

// Specialty verification statuses
const (
	SpecialtyVerificationPending  = "pending"
	SpecialtyVerificationVerified = "verified"
	SpecialtyVerificationRejected = "rejected"
)

// Specialty is one of a doctor's declared specialties.
type Specialty struct {
	MainSpecialty      string     `json:"main_specialty"`
	SubSpecialty       *string    `json:"sub_specialty,omitempty"`
	CertificateURL     *string    `json:"certificate_url,omitempty"`
	VerificationStatus string     `json:"verification_status"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
}

// ClinicInfo holds a doctor's practice configuration, including the weekly
// availability template the slot generator consumes.
type ClinicInfo struct {
	Schedule        WeeklyScheduleTemplate `json:"schedule"`
	City            *string                `json:"city,omitempty"`
	Area            *string                `json:"area,omitempty"`
	DetailedAddress *string                `json:"detailed_address,omitempty"`
	ClinicPhone     *string                `json:"clinic_phone,omitempty"`
	ClinicEmail     *string                `json:"clinic_email,omitempty"`
	ConsultationFee float64                `json:"consultation_fee"`
	Currency        string                 `json:"currency"`
}

// Doctor is a user with role doctor plus professional and clinic data. The
// clinic_info document is stored as a JSONB column.
type Doctor struct {
	User
	Specialties       []Specialty `json:"specialties" db:"-"`
	Bio               *string     `json:"bio,omitempty" db:"bio"`
	YearsOfExperience *int        `json:"years_of_experience,omitempty" db:"years_of_experience"`
	ClinicInfo        *ClinicInfo `json:"clinic_info,omitempty" db:"-"`
	Rating            *float64    `json:"rating,omitempty" db:"rating"`
	ReviewsCount      int         `json:"reviews_count" db:"reviews_count"`
	TotalAppointments int         `json:"total_appointments" db:"total_appointments"`
	DocumentsVerified bool        `json:"documents_verified" db:"documents_verified"`

	// Raw JSONB payloads, decoded by the repository.
	SpecialtiesRaw json.RawMessage `json:"-" db:"specialties"`
	ClinicInfoRaw  json.RawMessage `json:"-" db:"clinic_info"`
}

// Bookable reports whether the doctor can accept appointments at all.
func (d *Doctor) Bookable() bool {
	return d.Status == UserStatusActive && d.DocumentsVerified && d.ClinicInfo != nil
}

// DoctorFilters represents doctor search parameters
type DoctorFilters struct {
	Pagination
	Name      string   `json:"name" form:"name"`
	Specialty string   `json:"specialty" form:"specialty"`
	City      string   `json:"city" form:"city"`
	MinRating *float64 `json:"min_rating" form:"min_rating"`
	MaxFee    *float64 `json:"max_fee" form:"max_fee"`
}

// UpdateClinicInfoRequest carries a doctor's clinic configuration update.
// The embedded schedule template is validated before persisting.
type UpdateClinicInfoRequest struct {
	Schedule        *WeeklyScheduleTemplate `json:"schedule"`
	City            *string                 `json:"city"`
	Area            *string                 `json:"area"`
	DetailedAddress *string                 `json:"detailed_address"`
	ClinicPhone     *string                 `json:"clinic_phone"`
	ClinicEmail     *string                 `json:"clinic_email" binding:"omitempty,email"`
	ConsultationFee *float64                `json:"consultation_fee" binding:"omitempty,gte=0"`
	Currency        *string                 `json:"currency" binding:"omitempty,len=3"`
}
