package models

import (
	"time"
)

// Patient represents the basic information submitted with a booking.
// Patients are not authenticated users; they are identified by the email
// address they verify during booking.
type Patient struct {
	BaseModel
	FirstName   string     `gorm:"size:100;not null" json:"firstName"`
	LastName    string     `gorm:"size:100;not null" json:"lastName"`
	Email       string     `gorm:"size:255;index;not null" json:"email"`
	ContactNo   string     `gorm:"size:30" json:"contactNo"`
	Gender      string     `gorm:"size:20" json:"gender"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Address     string     `gorm:"size:255" json:"address"`
	Reason      string     `gorm:"size:255" json:"reason"`

	// Relations
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
}

// FullName returns the patient's display name for emails and receipts.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
