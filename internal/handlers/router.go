package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exam-portal/registration-service/internal/auth"
	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/services"
	"github.com/exam-portal/registration-service/internal/utils"
)

type HandlerManager struct {
	authHandler              *AuthHandler
	examHandler              *ExamHandler
	registrationHandler      *RegistrationHandler
	paymentHandler           *PaymentHandler
	enrollmentHandler        *EnrollmentHandler
	adminRegistrationHandler *AdminRegistrationHandler
	exportHandler            *ExportHandler
	contentHandler           *ContentHandler
	authMiddleware           *JWTAuthMiddleware
	serviceManager           services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:              NewAuthHandler(serviceManager.User(), serviceManager.Registration(), logger),
		examHandler:              NewExamHandler(serviceManager.Exam(), logger),
		registrationHandler:      NewRegistrationHandler(serviceManager.Registration(), logger),
		paymentHandler:           NewPaymentHandler(serviceManager.Payment(), logger),
		enrollmentHandler:        NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		adminRegistrationHandler: NewAdminRegistrationHandler(serviceManager.Registration(), logger),
		exportHandler:            NewExportHandler(serviceManager.Export(), logger),
		contentHandler:           NewContentHandler(serviceManager.Content(), logger),
		authMiddleware:           NewJWTAuthMiddleware(tokens),
		serviceManager:           serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")

	// Login is the only unauthenticated mutation.
	v1.POST("/auth/google", hm.authHandler.GoogleLogin)

	// Public reads; optional auth lets admins see drafts.
	public := v1.Group("")
	public.Use(hm.authMiddleware.OptionalAuthMiddleware())
	{
		public.GET("/exams", hm.examHandler.ListExams)
		public.GET("/exams/:id", hm.examHandler.GetExam)
		public.GET("/content", hm.contentHandler.ListContent)
		public.GET("/content/:id", hm.contentHandler.GetContent)
	}

	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Profile
		authed.GET("/auth/me", hm.authHandler.GetMe)
		authed.PUT("/auth/me/mobile", hm.authHandler.UpdateMobile)
		authed.GET("/auth/me/registrations", hm.authHandler.GetMyRegistrations)

		// Registration lifecycle (caller-owned)
		authed.POST("/registrations", hm.registrationHandler.Register)
		authed.GET("/registrations/:id", hm.registrationHandler.GetRegistration)
		authed.POST("/registrations/:id/payment", hm.paymentHandler.InitiatePayment)
		authed.POST("/registrations/:id/payment/confirm", hm.paymentHandler.ConfirmPayment)

		// Admin: exam management
		admin := authed.Group("")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/exams", hm.examHandler.CreateExam)
			admin.PUT("/exams/:id", hm.examHandler.UpdateExam)
			admin.DELETE("/exams/:id", hm.examHandler.DeleteExam)
			admin.POST("/exams/:id/activate", hm.examHandler.ActivateExam)
			admin.POST("/exams/:id/deactivate", hm.examHandler.DeactivateExam)

			// Admin: rosters and exports
			admin.GET("/exams/:id/registrations", hm.adminRegistrationHandler.ListExamRegistrations)
			admin.GET("/exams/:id/registrations/summary", hm.adminRegistrationHandler.GetStatusSummary)
			admin.GET("/exams/:id/registrations/export", hm.exportHandler.ExportRegistrationsCSV)
			admin.GET("/exams/:id/registrations/export/xlsx", hm.exportHandler.ExportRegistrationsXLSX)

			// Admin: enrollment
			admin.POST("/registrations/:id/enroll", hm.enrollmentHandler.Enroll)
			admin.POST("/registrations/bulk-enroll", hm.enrollmentHandler.BulkEnroll)

			// Admin: content management
			admin.POST("/content", hm.contentHandler.CreateContent)
			admin.PUT("/content/:id", hm.contentHandler.UpdateContent)
			admin.DELETE("/content/:id", hm.contentHandler.DeleteContent)
			admin.POST("/content/:id/publish", hm.contentHandler.PublishContent)
			admin.POST("/content/:id/unpublish", hm.contentHandler.UnpublishContent)
		}
	}
}

// HealthCheck reports service and dependency health.
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "registration-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
