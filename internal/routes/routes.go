package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	"github.com/BruksfildServices01/student-teacher-portal/internal/config"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/handlers"
	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
	infraRepo "github.com/BruksfildServices01/student-teacher-portal/internal/infra/repository"
	"github.com/BruksfildServices01/student-teacher-portal/internal/journal"
	"github.com/BruksfildServices01/student-teacher-portal/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/appointment"
	ucDirectory "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/directory"
	ucMessaging "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/messaging"
	"github.com/BruksfildServices01/student-teacher-portal/internal/usecase/notification"
)

// Infra holds the singletons built in main.
type Infra struct {
	Store    docstore.Store
	Journal  *journal.Journal
	Audit    *audit.Dispatcher
	Logger   *audit.Logger
	Accounts identity.Accounts
	Verifier identity.Verifier
}

func RegisterRoutes(r *gin.Engine, infra Infra, cfg *config.Config) {

	// ======================================================
	// 🌍 GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	directoryRepo := infraRepo.NewDirectoryStoreRepository(infra.Store)
	appointmentRepo := infraRepo.NewAppointmentStoreRepository(infra.Store)

	authLimiter := middleware.NewRateLimiter(5, 10)
	go pruneLimiter(authLimiter)

	// ======================================================
	// 🧠 USE CASES: DIRECTORY
	// ======================================================
	resolver := ucDirectory.NewResolver(directoryRepo)

	registerStudentUC := ucDirectory.NewRegisterStudent(
		directoryRepo,
		infra.Accounts,
		infra.Audit,
		cfg.VerifyEmailDomain,
	)

	registerTeacherUC := ucDirectory.NewRegisterTeacher(
		directoryRepo,
		infra.Accounts,
		infra.Audit,
		cfg.VerifyEmailDomain,
		cfg.TeacherIDPrefix,
	)

	loginUC := ucDirectory.NewLogin(directoryRepo, infra.Accounts, cfg.TeacherIDPrefix)
	listTeachersUC := ucDirectory.NewListTeachers(directoryRepo)

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	requestAppointmentUC := ucAppointment.NewRequestAppointment(
		infra.Store,
		infra.Journal,
		infra.Audit,
		cfg.TeacherIDPrefix,
	)

	transitionAppointmentUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		infra.Store,
		infra.Journal,
		infra.Audit,
		cfg.StrictTransitions,
	)

	listForTeacherUC := ucAppointment.NewListForTeacher(appointmentRepo, cfg.DisplayTimezone)
	listForStudentUC := ucAppointment.NewListForStudent(appointmentRepo, cfg.DisplayTimezone)

	// ======================================================
	// 🧠 USE CASES: MESSAGING
	// ======================================================
	sendUC := ucMessaging.NewSend(infra.Store, infra.Audit, cfg.TeacherIDPrefix)
	inboxUC := ucMessaging.NewInbox(infra.Store, cfg.DisplayTimezone)
	feed := notification.NewFeed(infra.Store)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(registerStudentUC, registerTeacherUC, loginUC)
	meHandler := handlers.NewMeHandler(resolver)
	publicHandler := handlers.NewPublicHandler(listTeachersUC)

	studentAppointmentHandler := handlers.NewStudentAppointmentHandler(requestAppointmentUC, listForStudentUC)
	teacherAppointmentHandler := handlers.NewTeacherAppointmentHandler(transitionAppointmentUC, listForTeacherUC)

	messageHandler := handlers.NewMessageHandler(sendUC, inboxUC)
	notificationHandler := handlers.NewNotificationHandler(feed)
	auditLogsHandler := handlers.NewAuditLogsHandler(infra.Logger)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC API
		// ------------------------------
		api.GET("/teachers", publicHandler.ListTeachers)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(authLimiter))
		{
			auth.POST("/students/signup", authHandler.SignupStudent)
			auth.POST("/students/login", authHandler.LoginStudent)
			auth.POST("/teachers/signup", authHandler.SignupTeacher)
			auth.POST("/teachers/login", authHandler.LoginTeacher)
		}

		// ------------------------------
		// 🔐 PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(infra.Verifier))
		{
			secured.GET("/me", meHandler.GetMe)
		}

		student := api.Group("/student")
		student.Use(middleware.AuthMiddleware(infra.Verifier), middleware.ResolveStudent(resolver))
		{
			student.POST("/messages", messageHandler.Send)
			student.POST("/appointments", studentAppointmentHandler.Create)
			student.GET("/appointments", studentAppointmentHandler.List)
			student.GET("/notifications", notificationHandler.List)
		}

		// Streams wait for the directory document instead of failing fast.
		studentStream := api.Group("/student")
		studentStream.Use(middleware.AuthMiddleware(infra.Verifier), middleware.AwaitStudent(resolver, cfg.IdentityWait))
		{
			studentStream.GET("/notifications/stream", notificationHandler.Stream)
		}

		teacher := api.Group("/teacher")
		teacher.Use(middleware.AuthMiddleware(infra.Verifier), middleware.ResolveTeacher(resolver))
		{
			teacher.GET("/messages", messageHandler.Inbox)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			teacher.GET("/appointments", teacherAppointmentHandler.List)
			teacher.PATCH("/appointments/:key/accept", teacherAppointmentHandler.Accept)
			teacher.PATCH("/appointments/:key/reject", teacherAppointmentHandler.Reject)
			teacher.PATCH("/appointments/:key/reschedule", teacherAppointmentHandler.Reschedule)

			teacher.GET("/audit-logs", auditLogsHandler.List)
		}

		teacherStream := api.Group("/teacher")
		teacherStream.Use(middleware.AuthMiddleware(infra.Verifier), middleware.AwaitTeacher(resolver, cfg.IdentityWait))
		{
			teacherStream.GET("/messages/stream", messageHandler.InboxStream)
			teacherStream.GET("/appointments/stream", teacherAppointmentHandler.Stream)
		}
	}
}

func pruneLimiter(rl *middleware.RateLimiter) {
	for range time.Tick(time.Minute) {
		rl.Prune(3 * time.Minute)
	}
}
