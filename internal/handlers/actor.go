package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduler"
	"clinic-app-server/internal/utils"
)

// resolveActor turns the authenticated user into a scheduler actor. Doctors
// and patients act under their directory profile id; admins under the account
// id. Writes the error response and returns false when resolution fails.
func resolveActor(db *gorm.DB, c *gin.Context) (scheduler.Actor, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return scheduler.Actor{}, false
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	switch role {
	case models.RolePatient:
		var patient models.Patient
		if err := db.Where("user_id = ?", userID).First(&patient).Error; err != nil {
			utils.NotFound(c, "Patient profile not found. Please complete your registration.")
			return scheduler.Actor{}, false
		}
		return scheduler.Actor{ID: patient.ID, Role: role}, true
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := db.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
			utils.NotFound(c, "Doctor profile not found")
			return scheduler.Actor{}, false
		}
		return scheduler.Actor{ID: doctor.ID, Role: role}, true
	default:
		return scheduler.Actor{ID: userID, Role: role}, true
	}
}

// respondSchedulerError maps a scheduler error onto the response envelope.
func respondSchedulerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrBadDate), errors.Is(err, scheduler.ErrBadSlot):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, scheduler.ErrNotFound):
		utils.NotFound(c, "Appointment not found")
	case errors.Is(err, scheduler.ErrNotOwner):
		utils.Forbidden(c, "You can only manage your own appointments")
	case errors.Is(err, scheduler.ErrSlotTaken):
		utils.Conflict(c, "Sorry, this time slot is no longer available. Please refresh the available slots and choose another.")
	case errors.Is(err, scheduler.ErrRecordExists):
		utils.Conflict(c, "Medical report already exists for this appointment")
	case errors.Is(err, scheduler.ErrNotCancellable):
		utils.Conflict(c, "Only scheduled appointments can be cancelled")
	default:
		utils.InternalServerError(c, err.Error())
	}
}
