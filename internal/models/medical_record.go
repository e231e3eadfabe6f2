package models

// MedicalRecord represents clinical findings for exactly one completed appointment
type MedicalRecord struct {
	BaseModel
	PatientID     string `gorm:"size:36;index;not null" json:"patientId"`
	AppointmentID string `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	Diagnosis     string `gorm:"type:text;not null" json:"diagnosis"`
	Prescription  string `gorm:"type:text;not null" json:"prescription"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Patient     Patient     `gorm:"foreignKey:PatientID" json:"-"`
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
