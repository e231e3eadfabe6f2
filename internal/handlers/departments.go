package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"
)

// DepartmentHandler handles department management requests.
type DepartmentHandler struct {
	DB *gorm.DB
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(db *gorm.DB) *DepartmentHandler {
	return &DepartmentHandler{DB: db}
}

// DepartmentRequest represents the request body for creating or renaming a department.
type DepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// GetDepartments lists all departments with their doctors.
func (h *DepartmentHandler) GetDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.DB.Preload("Doctors").Find(&departments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch departments: "+err.Error())
		return
	}
	utils.Success(c, "Departments fetched successfully", departments)
}

// CreateDepartment adds a new department.
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	department := models.Department{Name: req.Name}
	if err := h.DB.Create(&department).Error; err != nil {
		utils.InternalServerError(c, "Failed to create department: "+err.Error())
		return
	}
	utils.Created(c, "Department added successfully!", department)
}

// UpdateDepartment renames a department.
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var department models.Department
	if err := h.DB.First(&department, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Department not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	department.Name = req.Name
	if err := h.DB.Save(&department).Error; err != nil {
		utils.InternalServerError(c, "Failed to update department: "+err.Error())
		return
	}
	utils.Success(c, "Department updated successfully!", department)
}

// DeleteDepartment removes a department. Refused while doctors are assigned.
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	var department models.Department
	if err := h.DB.First(&department, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Department not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var doctorCount int64
	if err := h.DB.Model(&models.Doctor{}).Where("department_id = ?", department.ID).Count(&doctorCount).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if doctorCount > 0 {
		utils.Conflict(c, "Cannot delete department with assigned doctors")
		return
	}

	if err := h.DB.Delete(&department).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete department: "+err.Error())
		return
	}
	utils.Success(c, "Department deleted successfully!", nil)
}
