package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduler"
	"clinic-app-server/internal/utils"
)

// MedicalRecordHandler handles medical record requests.
type MedicalRecordHandler struct {
	DB        *gorm.DB
	Scheduler *scheduler.Service
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(db *gorm.DB, svc *scheduler.Service) *MedicalRecordHandler {
	return &MedicalRecordHandler{DB: db, Scheduler: svc}
}

// CreateMedicalRecordRequest represents the request body for attaching a
// medical record to an appointment.
type CreateMedicalRecordRequest struct {
	Diagnosis    string `json:"diagnosis" binding:"required"`
	Prescription string `json:"prescription" binding:"required"`
	Notes        string `json:"notes"`
}

// CreateMedicalRecord attaches a record to the appointment and completes it.
// Doctor-only; ownership and single-record checks live in the scheduler.
// POST /appointments/:id/record
func (h *MedicalRecordHandler) CreateMedicalRecord(c *gin.Context) {
	var req CreateMedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}

	rec, err := h.Scheduler.AttachRecord(c.Request.Context(), actor, c.Param("id"),
		req.Diagnosis, req.Prescription, req.Notes)
	if err != nil {
		respondSchedulerError(c, err)
		return
	}

	utils.Created(c, "Medical report added successfully!", rec)
}

// GetMedicalRecordForAppointment fetches the record attached to an
// appointment. Only the owning doctor may view it through this route.
// GET /appointments/:id/record
func (h *MedicalRecordHandler) GetMedicalRecordForAppointment(c *gin.Context) {
	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if actor.Role != models.RoleDoctor || actor.ID != appointment.DoctorID {
		utils.Forbidden(c, "You can only view records for your own appointments")
		return
	}

	var record models.MedicalRecord
	if err := h.DB.First(&record, "appointment_id = ?", appointment.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "No medical report found for this appointment")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Medical record fetched successfully", record)
}

// GetMedicalRecords lists records visible to the logged-in user: patients see
// their own, doctors see the records of their appointments.
func (h *MedicalRecordHandler) GetMedicalRecords(c *gin.Context) {
	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}

	var records []models.MedicalRecord
	var err error
	switch actor.Role {
	case models.RolePatient:
		err = h.DB.Where("patient_id = ?", actor.ID).Find(&records).Error
	case models.RoleDoctor:
		err = h.DB.
			Joins("JOIN appointments ON appointments.id = medical_records.appointment_id").
			Where("appointments.doctor_id = ?", actor.ID).
			Find(&records).Error
	default:
		utils.Forbidden(c, "User role not permitted to view medical records this way")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch medical records: "+err.Error())
		return
	}

	utils.Success(c, "Medical records fetched successfully", records)
}
