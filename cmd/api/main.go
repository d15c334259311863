package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	"github.com/BruksfildServices01/student-teacher-portal/internal/backup"
	"github.com/BruksfildServices01/student-teacher-portal/internal/config"
	dbpkg "github.com/BruksfildServices01/student-teacher-portal/internal/db"
	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
	"github.com/BruksfildServices01/student-teacher-portal/internal/jobs"
	"github.com/BruksfildServices01/student-teacher-portal/internal/journal"
	"github.com/BruksfildServices01/student-teacher-portal/internal/routes"
)

func main() {

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := dbpkg.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer backend.Close()
	store := backend.Store

	auditLogger := audit.New(store)
	auditDispatcher := audit.NewDispatcher(auditLogger, cfg.AuditQueueSize)
	defer auditDispatcher.Close()

	j := journal.New(store)
	issuer := identity.NewJWT(cfg.JWTSecret)

	// ======================================================
	// BACKGROUND JOBS
	// ======================================================
	scheduler := jobs.NewScheduler()
	reconciler := journal.NewReconciler(j, auditDispatcher)

	// Finish whatever a previous process left half written.
	jobs.ReconcileOnce(ctx, reconciler, cfg.ReconcileGrace)

	if err := scheduler.AddReconcile(cfg.ReconcileSchedule, reconciler, cfg.ReconcileGrace); err != nil {
		log.Fatalf("invalid RECONCILE_SCHEDULE: %v", err)
	}
	if cfg.Backup.Enabled() {
		exporter := backup.NewExporter(store, backup.NewS3Client(cfg.Backup), cfg.Backup.Bucket, cfg.Backup.Prefix)
		if err := scheduler.AddBackup(cfg.Backup.Schedule, exporter); err != nil {
			log.Fatalf("invalid BACKUP_SCHEDULE: %v", err)
		}
	}
	scheduler.Start()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": cfg.StoreDriver})
	})

	routes.RegisterRoutes(r, routes.Infra{
		Store:    store,
		Journal:  j,
		Audit:    auditDispatcher,
		Logger:   auditLogger,
		Accounts: identity.NewLocalAccounts(issuer, backend.Credentials),
		Verifier: issuer,
	}, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	scheduler.Stop(shutdownCtx)
}
