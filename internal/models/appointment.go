package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Appointment represents a reserved time slot between one patient and one doctor.
// The unique index over (doctor_id, appointment_date, time_slot) is the authoritative
// guard against double booking; every row occupies its triple regardless of status.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID        string            `gorm:"size:36;not null;uniqueIndex:uidx_doctor_date_slot" json:"doctorId"`
	AppointmentDate time.Time         `gorm:"type:date;not null;uniqueIndex:uidx_doctor_date_slot" json:"appointmentDate"`
	TimeSlot        string            `gorm:"size:20;not null;uniqueIndex:uidx_doctor_date_slot" json:"timeSlot"` // "HH:MM"
	Period          string            `gorm:"size:20;not null" json:"period"` // Morning, Afternoon, Evening
	Status          AppointmentStatus `gorm:"size:20;default:'Scheduled'" json:"status"`

	// Relations
	Patient       Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor        Doctor         `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	MedicalRecord *MedicalRecord `gorm:"foreignKey:AppointmentID" json:"medicalRecord,omitempty"`
}
