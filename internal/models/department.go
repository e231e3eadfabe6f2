package models

// Department represents a clinical department doctors are assigned to
type Department struct {
	BaseModel
	Name string `gorm:"size:100;not null" json:"name"`

	// Relations
	Doctors []Doctor `gorm:"foreignKey:DepartmentID" json:"doctors,omitempty"`
}
