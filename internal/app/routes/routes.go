package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/controllers"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/websocket"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth        *controllers.AuthController
	Profile     *controllers.ProfileController
	Company     *controllers.CompanyController
	Event       *controllers.EventController
	Internship  *controllers.InternshipController
	Resume      *controllers.ResumeController
	Chat        *controllers.ChatController
	Admin       *controllers.AdminController
	File        *controllers.FileController
	LiveHandler *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	audit middleware.AuditRecorder,
	logger zerolog.Logger,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	// Signed URLs carry their own authorization
	v1.GET("/files/:id/download", c.File.Download)

	// --- Browsing routes, personalised when a token is present ---
	browse := v1.Group("")
	browse.Use(authMiddleware.OptionalAuth())
	{
		browse.GET("/companies", c.Company.List)
		browse.GET("/companies/:id", c.Company.Get)
		browse.GET("/companies/:id/events", c.Company.ListEvents)
		browse.GET("/events", c.Event.List)
		browse.GET("/events/:id", c.Event.Get)
		browse.GET("/internships", c.Internship.List)
		browse.GET("/internships/:id", c.Internship.Get)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), middleware.AdminAudit(audit, logger))

	me := authenticated.Group("/users/me")
	{
		me.GET("", c.Profile.GetMe)
		me.PUT("", c.Profile.UpdateMe)
		me.POST("/avatar", c.Profile.UploadAvatar)
		me.GET("/registrations", c.Profile.MyRegistrations)
	}

	resumes := authenticated.Group("/resumes")
	{
		resumes.GET("", c.Resume.List)
		resumes.POST("", c.Resume.Create)
		resumes.GET("/:id", c.Resume.Get)
		resumes.PUT("/:id", c.Resume.Update)
		resumes.DELETE("/:id", c.Resume.Delete)
		resumes.GET("/:id/markdown", c.Resume.Markdown)
	}

	authenticated.POST("/ai/chat", c.Chat.Chat)

	// Registration is for attendees. Owners and admins read the lists.
	registrations := authenticated.Group("/events/:id/registrations")
	{
		registrations.POST("", authMiddleware.RoleRequired(models.RoleUser), c.Event.Register)
		registrations.DELETE("/me", authMiddleware.RoleRequired(models.RoleUser), c.Event.CancelRegistration)

		owners := registrations.Group("")
		owners.Use(authMiddleware.RoleRequired(models.RoleCompany, models.RoleAdmin))
		{
			owners.GET("", c.Event.ListRegistrations)
			owners.GET("/export", c.Event.ExportRegistrations)
			owners.POST("/:registrationId/attend", c.Event.MarkAttended)
		}
	}

	// Company-owned resources. Services check ownership, admins may act on any record.
	owned := authenticated.Group("")
	owned.Use(authMiddleware.RoleRequired(models.RoleCompany, models.RoleAdmin))
	{
		owned.POST("/companies", authMiddleware.RoleRequired(models.RoleCompany), c.Company.Register)
		owned.GET("/companies/me", authMiddleware.RoleRequired(models.RoleCompany), c.Company.GetMine)
		owned.PUT("/companies/:id", c.Company.Update)
		owned.DELETE("/companies/:id", c.Company.Delete)
		owned.POST("/companies/:id/logo", c.Company.UploadLogo)
		owned.POST("/companies/:id/banner", c.Company.UploadBanner)
		owned.POST("/companies/:id/documents", c.Company.UploadDocument)
		owned.GET("/companies/:id/documents", c.Company.ListDocuments)

		owned.POST("/events", c.Event.Create)
		owned.PUT("/events/:id", c.Event.Update)
		owned.POST("/events/:id/cancel", c.Event.Cancel)
		owned.POST("/events/:id/banner", c.Event.UploadBanner)
		owned.GET("/events/:id/moderation-logs", c.Event.ModerationLogs)

		owned.POST("/internships", c.Internship.Create)
		owned.PUT("/internships/:id", c.Internship.Update)
		owned.POST("/internships/:id/close", c.Internship.Close)
		owned.DELETE("/internships/:id", c.Internship.Delete)
	}

	// --- Admin routes ---
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", c.Admin.Dashboard)
		admin.GET("/users", c.Admin.ListUsers)
		admin.PUT("/users/:id/status", c.Admin.SetUserStatus)
		admin.PATCH("/users/:id/status", c.Admin.SetUserStatus)
		admin.POST("/companies/:id/review", c.Company.Review)
		admin.GET("/moderation/queue", c.Admin.Queue)
		admin.POST("/events/:id/moderate", c.Admin.Moderate)
		admin.GET("/audit-logs", c.Admin.ListAudit)
		admin.GET("/audit-logs/export", c.Admin.ExportAudit)
		admin.GET("/audit-logs/:id", c.Admin.GetAudit)
		admin.GET("/live", c.LiveHandler.ServeLive)
	}
}
