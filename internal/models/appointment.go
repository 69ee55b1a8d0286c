package models

import (
	"time"
)

// AppointmentStatus represents the staff-driven status of an appointment
type AppointmentStatus string

const (
	StatusPending        AppointmentStatus = "pending"
	StatusCheckedIn      AppointmentStatus = "checked-in"
	StatusInConsultation AppointmentStatus = "in_consultation"
	StatusComplete       AppointmentStatus = "complete"
	StatusCancelled      AppointmentStatus = "cancelled"
)

// ValidStatus reports whether s is in the allow-list of appointment statuses.
// Any listed status may overwrite any other; there is no transition graph.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusCheckedIn, StatusInConsultation, StatusComplete, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus represents the payment lifecycle of an appointment,
// independent of its staff-driven status.
type PaymentStatus string

const (
	PaymentNone      PaymentStatus = ""
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
)

// Appointment represents a scheduled clinic appointment
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index" json:"patientId"`
	ProcedureID     string            `gorm:"size:36;index" json:"procedureId"`
	AppointmentDate time.Time         `json:"appointmentDate"`
	TimeSlot        string            `gorm:"size:50" json:"timeSlot"`
	Status          AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	EmailVerified   bool              `gorm:"default:false" json:"emailVerified"`
	PaymentID       string            `gorm:"size:64;index" json:"paymentId,omitempty"`
	PaymentURL      string            `gorm:"size:512" json:"paymentUrl,omitempty"`
	PaymentStatus   PaymentStatus     `gorm:"size:20;default:''" json:"paymentStatus,omitempty"`

	// Relations
	Patient   Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Procedure Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`
}

// AppointmentSanitized is the appointment view safe to expose to
// unauthenticated callers: payment metadata is redacted until the payment
// has actually succeeded.
type AppointmentSanitized struct {
	ID              string            `json:"id"`
	PatientID       string            `json:"patientId"`
	ProcedureID     string            `json:"procedureId"`
	AppointmentDate time.Time         `json:"appointmentDate"`
	TimeSlot        string            `json:"timeSlot"`
	Status          AppointmentStatus `json:"status"`
	EmailVerified   bool              `json:"emailVerified"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus,omitempty"`
	PaymentID       string            `json:"paymentId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Sanitize creates an AppointmentSanitized from an Appointment, omitting
// payment identifiers unless the payment has succeeded.
func (a *Appointment) Sanitize() AppointmentSanitized {
	out := AppointmentSanitized{
		ID:              a.ID,
		PatientID:       a.PatientID,
		ProcedureID:     a.ProcedureID,
		AppointmentDate: a.AppointmentDate,
		TimeSlot:        a.TimeSlot,
		Status:          a.Status,
		EmailVerified:   a.EmailVerified,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.PaymentStatus == PaymentSucceeded {
		out.PaymentStatus = a.PaymentStatus
		out.PaymentID = a.PaymentID
	}
	return out
}
