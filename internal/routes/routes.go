package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduler"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// The scheduler service backs every slot/booking/record operation.
	schedulerService := scheduler.New(scheduler.NewGormStore(db))

	authHandler := handlers.NewAuthHandler(db, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(db, schedulerService, cfg)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(db, schedulerService)
	departmentHandler := handlers.NewDepartmentHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	patientHandler := handlers.NewPatientHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
			authRoutesPrivate.POST("/change-password", authHandler.ChangePassword)
		}

		// Department routes: listing is open to all authenticated users,
		// management is admin-only.
		departmentRoutes := private.Group("/departments")
		{
			departmentRoutes.GET("", departmentHandler.GetDepartments)

			adminDepartments := departmentRoutes.Group("")
			adminDepartments.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminDepartments.POST("", departmentHandler.CreateDepartment)
				adminDepartments.PUT("/:id", departmentHandler.UpdateDepartment)
				adminDepartments.DELETE("/:id", departmentHandler.DeleteDepartment)
			}
		}

		// Doctor routes: the directory and slot availability are readable by
		// everyone logged in; provisioning is admin-only.
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id/slots", appointmentHandler.GetAvailableSlots)

			adminDoctors := doctorRoutes.Group("")
			adminDoctors.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminDoctors.POST("", doctorHandler.CreateDoctor)
				adminDoctors.PUT("/:id", doctorHandler.UpdateDoctor)
				adminDoctors.DELETE("/:id", doctorHandler.DeleteDoctor)
			}
		}

		// Patient routes
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RoleDoctor), patientHandler.GetDoctorPatients)

			adminPatients := patientRoutes.Group("")
			adminPatients.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminPatients.GET("", patientHandler.GetPatients)
				adminPatients.DELETE("/:id", patientHandler.DeletePatient)
			}
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.BookAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.POST("/:id/complete", middleware.RoleAuthMiddleware(models.RoleDoctor), appointmentHandler.CompleteAppointment)

			// Patients cancel their own scheduled appointments; admins remove any.
			appointmentRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleAdmin), appointmentHandler.DeleteAppointment)

			appointmentRoutes.POST("/:id/record", middleware.RoleAuthMiddleware(models.RoleDoctor), medicalRecordHandler.CreateMedicalRecord)
			appointmentRoutes.GET("/:id/record", middleware.RoleAuthMiddleware(models.RoleDoctor), medicalRecordHandler.GetMedicalRecordForAppointment)
		}

		// Medical record listings
		private.GET("/medical-records", medicalRecordHandler.GetMedicalRecords)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
