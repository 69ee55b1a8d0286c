package models

// Procedure represents a bookable clinic procedure and its price.
// Service is the category the procedure belongs to (e.g. "Blood Chemistry"
// for "Total Cholesterol").
type Procedure struct {
	BaseModel
	Name    string  `gorm:"size:255;not null" json:"name"`
	Service string  `gorm:"size:255;not null" json:"service"`
	Price   float64 `gorm:"type:decimal(10,2)" json:"price"`

	// Relations
	Appointments []Appointment `gorm:"foreignKey:ProcedureID" json:"-"`
}
