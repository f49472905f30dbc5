package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ehr/hospital/internal/config"
	"github.com/ehr/hospital/internal/domain/billing"
	"github.com/ehr/hospital/internal/domain/doctor"
	"github.com/ehr/hospital/internal/domain/patient"
	"github.com/ehr/hospital/internal/domain/visit"
	"github.com/ehr/hospital/internal/platform/db"
	"github.com/ehr/hospital/internal/platform/gateway"
	"github.com/ehr/hospital/internal/platform/middleware"
)

// identities names the generated key column of each table for the memory
// driver.
var identities = map[string]string{
	patient.Table: patient.ColID,
	doctor.Table:  doctor.ColID,
	visit.Table:   visit.ColID,
}

// Placeholder roster values for a sentinel created by seed or the memory
// driver.
const (
	sentinelSpecialty  = "General Practice"
	sentinelDepartment = "Unassigned"
)

func newLogger(env, level string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}

// app holds the gateway and every repository and service built on it. The
// doctor service needs the sentinel id, so it stays nil until
// resolveSentinel or ensureSentinel succeeds.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	gw  gateway.Gateway

	patientRepo patient.Repository
	doctorRepo  doctor.Repository
	visitRepo   visit.Repository

	patients *patient.Service
	doctors  *doctor.Service
	visits   *visit.Service
	billing  *billing.Service
}

func openApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	gw, err := gateway.Open(ctx, gateway.Options{
		URL:        cfg.GatewayURL,
		Key:        cfg.GatewayKey,
		Timeout:    cfg.GatewayTimeout,
		MaxConns:   cfg.DBMaxConns,
		MinConns:   cfg.DBMinConns,
		Identities: identities,
	})
	if err != nil {
		return nil, err
	}
	return newApp(cfg, log, gw), nil
}

func newApp(cfg *config.Config, log zerolog.Logger, gw gateway.Gateway) *app {
	a := &app{
		cfg:         cfg,
		log:         log,
		gw:          gw,
		patientRepo: patient.NewRepo(gw),
		doctorRepo:  doctor.NewRepo(gw),
		visitRepo:   visit.NewRepo(gw),
	}
	a.patients = patient.NewService(a.patientRepo)
	a.visits = visit.NewService(a.visitRepo, a.patientRepo, a.doctorRepo, log)
	a.billing = billing.NewService(a.visitRepo, a.doctorRepo, a.patientRepo, cfg.TopDepartments, log)
	return a
}

func (a *app) close() {
	a.gw.Close()
}

// resolveSentinel locates the configured sentinel doctor and builds the
// doctor service around it.
func (a *app) resolveSentinel(ctx context.Context) (*doctor.Doctor, error) {
	s, err := doctor.ResolveSentinel(ctx, a.doctorRepo, a.cfg.SentinelDoctorID, a.cfg.SentinelDoctorName, a.log)
	if err != nil {
		return nil, err
	}
	a.doctors = doctor.NewService(a.doctorRepo, a.visitRepo, s.ID, a.log)
	return s, nil
}

// ensureSentinel resolves the sentinel, creating it by name when no
// SENTINEL_DOCTOR_ID is configured and no doctor carries the name.
func (a *app) ensureSentinel(ctx context.Context) (*doctor.Doctor, error) {
	s, err := a.resolveSentinel(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, doctor.ErrSentinelMissing) || a.cfg.SentinelDoctorID > 0 {
		return nil, err
	}

	s = &doctor.Doctor{
		Name:       a.cfg.SentinelDoctorName,
		Specialty:  sentinelSpecialty,
		Department: sentinelDepartment,
	}
	if err := doctor.NewService(a.doctorRepo, a.visitRepo, 0, a.log).CreateDoctor(ctx, s); err != nil {
		return nil, fmt.Errorf("create sentinel doctor: %w", err)
	}
	a.log.Info().Int64("doctor_id", s.ID).Str("name", s.Name).Msg("created sentinel doctor")
	a.doctors = doctor.NewService(a.doctorRepo, a.visitRepo, s.ID, a.log)
	return s, nil
}

func (a *app) pool() *pgxpool.Pool {
	if pg, ok := a.gw.(*gateway.Postgres); ok {
		return pg.Pool()
	}
	return nil
}

// routes installs the middleware chain, the health check and every API
// handler on e. The sentinel must already be resolved.
func (a *app) routes(e *echo.Echo) {
	e.Use(middleware.Recovery(a.log))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.log))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(a.cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(a.cfg.RequestTimeout))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: a.cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.Audit(a.log))

	e.GET("/health", db.HealthHandler(a.gw, a.cfg.GatewayDriver(), a.pool()))

	api := e.Group("/api/v1")
	patient.NewHandler(a.patients).RegisterRoutes(api)
	doctor.NewHandler(a.doctors).RegisterRoutes(api)
	visit.NewHandler(a.visits).RegisterRoutes(api)
	billing.NewHandler(a.billing).RegisterRoutes(api)
}
