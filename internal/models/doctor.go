package models

// Doctor represents a doctor's directory profile, linked to a login account
type Doctor struct {
	BaseModel
	UserID         string  `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Name           string  `gorm:"size:100;not null" json:"name"`
	Specialization string  `gorm:"size:100;not null" json:"specialization"`
	DepartmentID   string  `gorm:"size:36;index;not null" json:"departmentId"`
	Gender         string  `gorm:"size:10" json:"gender,omitempty"`
	Phone          string  `gorm:"size:15" json:"phone,omitempty"`
	Fees           float64 `gorm:"default:500" json:"fees"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Department   Department    `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
}
