package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// tempDoctorPassword is the temporary password admin-provisioned doctor
// accounts start with; the doctor is expected to change it on first login.
const tempDoctorPassword = "doctor123"

// DoctorHandler handles doctor directory and management requests.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// GetDoctors lists all doctors with their departments.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.DB.Preload("Department").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// CreateDoctorRequest represents the request body for provisioning a doctor.
type CreateDoctorRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Email          string  `json:"email" binding:"required,email"`
	Specialization string  `json:"specialization"`
	DepartmentID   string  `json:"departmentId" binding:"required,uuid"`
	Fees           float64 `json:"fees"`
}

// CreateDoctor provisions a doctor: a login account with a temporary
// password plus the directory profile, in one transaction.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "A user with that email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	var department models.Department
	if err := h.DB.First(&department, "id = ?", req.DepartmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Department not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	specialization := req.Specialization
	if specialization == "" {
		specialization = "General"
	}
	fees := req.Fees
	if fees == 0 {
		fees = 500.0
	}

	user := models.User{
		Username: req.Name,
		Email:    req.Email,
		Role:     models.RoleDoctor,
	}
	if err := user.SetPassword(tempDoctorPassword); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	var doctor models.Doctor
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		doctor = models.Doctor{
			UserID:         user.ID,
			Name:           req.Name,
			Specialization: specialization,
			DepartmentID:   req.DepartmentID,
			Fees:           fees,
		}
		return tx.Create(&doctor).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create doctor: "+err.Error())
		return
	}

	utils.Created(c, "Doctor \""+req.Name+"\" added successfully. Temporary password is \""+tempDoctorPassword+"\"", doctor)
}

// UpdateDoctorRequest represents the request body for editing a doctor.
// Empty fields are left unchanged.
type UpdateDoctorRequest struct {
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	DepartmentID   string  `json:"departmentId"`
	Fees           float64 `json:"fees"`
}

// UpdateDoctor edits a doctor's directory profile.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var req UpdateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Name != "" {
		doctor.Name = req.Name
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.DepartmentID != "" {
		var department models.Department
		if err := h.DB.First(&department, "id = ?", req.DepartmentID).Error; err != nil {
			utils.NotFound(c, "Department not found")
			return
		}
		doctor.DepartmentID = req.DepartmentID
	}
	if req.Fees != 0 {
		doctor.Fees = req.Fees
	}

	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor: "+err.Error())
		return
	}
	utils.Success(c, "Doctor updated successfully!", doctor)
}

// DeleteDoctor removes a doctor and the linked login account. Refused while
// the doctor still has appointments, so no appointment is ever orphaned.
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var appointmentCount int64
	if err := h.DB.Model(&models.Appointment{}).Where("doctor_id = ?", doctor.ID).Count(&appointmentCount).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if appointmentCount > 0 {
		utils.Conflict(c, "Cannot delete doctor with existing appointments")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&doctor).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", doctor.UserID).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete doctor: "+err.Error())
		return
	}
	utils.Success(c, "Doctor deleted successfully!", nil)
}
