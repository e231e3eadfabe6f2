package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// PatientHandler handles patient management requests.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// GetPatients lists all patients. Admin-only.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	var patients []models.Patient
	if err := h.DB.Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetDoctorPatients lists the distinct patients a doctor has appointments
// with. Doctor-only.
func (h *PatientHandler) GetDoctorPatients(c *gin.Context) {
	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}
	if actor.Role != models.RoleDoctor {
		utils.Forbidden(c, "Only doctors can list their patients")
		return
	}

	var patients []models.Patient
	err := h.DB.Distinct("patients.*").
		Joins("JOIN appointments ON appointments.patient_id = patients.id").
		Where("appointments.doctor_id = ?", actor.ID).
		Find(&patients).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// DeletePatient removes a patient together with their appointments, medical
// records and login account, in one transaction. Admin-only.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MedicalRecord{}, "patient_id = ?", patient.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Appointment{}, "patient_id = ?", patient.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&patient).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", patient.UserID).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient and all associated records deleted successfully!", nil)
}
