package models

import (
	"time"
)

// Patient represents a patient's directory profile, linked to a login account
type Patient struct {
	BaseModel
	UserID  string    `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Name    string    `gorm:"size:100;not null" json:"name"`
	DOB     time.Time `gorm:"type:date" json:"dob"`
	Gender  string    `gorm:"size:10;not null" json:"gender"`
	Phone   string    `gorm:"size:15;not null" json:"phone"`
	Address string    `gorm:"size:200" json:"address,omitempty"`

	// Relations
	User           User            `gorm:"foreignKey:UserID" json:"-"`
	Appointments   []Appointment   `gorm:"foreignKey:PatientID" json:"-"`
	MedicalRecords []MedicalRecord `gorm:"foreignKey:PatientID" json:"-"`
}
