package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MedicineItem is one line of a prescription.
type MedicineItem struct {
	Name         string  `json:"name" binding:"required"`
	NameAr       *string `json:"name_ar,omitempty"`
	Dosage       string  `json:"dosage" binding:"required"`
	Frequency    string  `json:"frequency" binding:"required"`
	Duration     string  `json:"duration" binding:"required"`
	Instructions *string `json:"instructions,omitempty"`
}

// Prescription is a doctor-issued medicine list, optionally linked to the
// appointment it was written during.
type Prescription struct {
	Base
	DoctorID            uuid.UUID      `json:"doctor_id" db:"doctor_id"`
	PatientID           uuid.UUID      `json:"patient_id" db:"patient_id"`
	AppointmentID       *uuid.UUID     `json:"appointment_id,omitempty" db:"appointment_id"`
	PrescriptionNumber  string         `json:"prescription_number" db:"prescription_number"`
	Diagnosis           *string        `json:"diagnosis,omitempty" db:"diagnosis"`
	Medicines           []MedicineItem `json:"medicines" db:"-"`
	GeneralInstructions *string        `json:"general_instructions,omitempty" db:"general_instructions"`
	ValidUntil          *time.Time     `json:"valid_until,omitempty" db:"valid_until"`

	// Raw JSONB payload, decoded by the repository.
	MedicinesRaw json.RawMessage `json:"-" db:"medicines"`
}

// CreatePrescriptionRequest is a doctor's prescription submission.
type CreatePrescriptionRequest struct {
	PatientID           string         `json:"patient_id" binding:"required,uuid"`
	AppointmentID       *string        `json:"appointment_id" binding:"omitempty,uuid"`
	Diagnosis           *string        `json:"diagnosis" binding:"omitempty,max=1000"`
	Medicines           []MedicineItem `json:"medicines" binding:"required,min=1,dive"`
	GeneralInstructions *string        `json:"general_instructions" binding:"omitempty,max=1000"`
	ValidUntil          *string        `json:"valid_until"`
}

// PrescriptionFilters bounds prescription list queries.
type PrescriptionFilters struct {
	Pagination
	DoctorID  uuid.UUID
	PatientID uuid.UUID
}
