package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduler"
	"clinic-app-server/internal/utils"
)

// AppointmentHandler handles slot availability and appointment requests.
type AppointmentHandler struct {
	DB        *gorm.DB
	Scheduler *scheduler.Service
	Cfg       *config.Config
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, svc *scheduler.Service, cfg *config.Config) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Scheduler: svc, Cfg: cfg}
}

// AvailableSlotsResponse carries the free slots plus the booking window the
// client should constrain its date picker to.
type AvailableSlotsResponse struct {
	Slots   scheduler.Availability `json:"slots"`
	MinDate string                 `json:"minDate"`
	MaxDate string                 `json:"maxDate"`
}

// GetAvailableSlots returns the free slots for a doctor on a date.
// GET /doctors/:id/slots?date=YYYY-MM-DD
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	doctorID := c.Param("id")
	dateStr := c.Query("date")
	if dateStr == "" {
		utils.BadRequest(c, "date query parameter is required")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	slots, err := h.Scheduler.AvailableSlots(c.Request.Context(), doctorID, dateStr)
	if err != nil {
		respondSchedulerError(c, err)
		return
	}

	today := time.Now()
	utils.Success(c, "Available slots fetched successfully", AvailableSlotsResponse{
		Slots:   slots,
		MinDate: today.Format(scheduler.DateLayout),
		MaxDate: today.AddDate(0, 0, h.Cfg.BookingWindowDays).Format(scheduler.DateLayout),
	})
}

// BookAppointmentRequest represents the request body for booking a slot.
type BookAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required,uuid"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	TimeSlot        string `json:"timeSlot" binding:"required"`
}

// BookAppointment books a slot for the logged-in patient.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	appt, err := h.Scheduler.Book(c.Request.Context(), actor, actor.ID, req.DoctorID, req.AppointmentDate, req.TimeSlot)
	if err != nil {
		respondSchedulerError(c, err)
		return
	}

	utils.Created(c, "Appointment booked successfully!", appt)
}

// GetAppointments lists appointments for the logged-in user: patients see
// their own, doctors see theirs, admins see everything.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	query := h.DB.Preload("Patient").Preload("Doctor").
		Order("appointment_date asc, time_slot asc")

	var err error
	switch actor.Role {
	case models.RolePatient:
		err = query.Where("patient_id = ?", actor.ID).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", actor.ID).Find(&appointments).Error
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID fetches one appointment. Accessible to the involved
// patient, the involved doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}

	var appointment models.Appointment
	err := h.DB.Preload("Patient").Preload("Doctor").Preload("MedicalRecord").
		First(&appointment, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	involved := actor.ID == appointment.PatientID || actor.ID == appointment.DoctorID
	if actor.Role != models.RoleAdmin && !involved {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// CompleteAppointment marks an appointment completed. Doctor-only; ownership
// is enforced by the scheduler.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}

	appt, err := h.Scheduler.Complete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondSchedulerError(c, err)
		return
	}

	utils.Success(c, "Appointment marked as completed!", appt)
}

// DeleteAppointment removes an appointment. Patients cancel their own
// scheduled appointments; admins remove any appointment outright.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	actor, ok := resolveActor(h.DB, c)
	if !ok {
		return
	}

	var err error
	if actor.Role == models.RoleAdmin {
		err = h.Scheduler.Remove(c.Request.Context(), actor, c.Param("id"))
	} else {
		err = h.Scheduler.CancelAsPatient(c.Request.Context(), actor, c.Param("id"))
	}
	if err != nil {
		respondSchedulerError(c, err)
		return
	}

	utils.Success(c, "Appointment deleted successfully!", nil)
}
