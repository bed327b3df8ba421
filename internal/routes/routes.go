package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/ninsaude-scheduler/internal/audit"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/config"
	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/handlers"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/metrics"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/ninsaude-scheduler/internal/usecase/booking"
)

// Deps are the singletons built by main.
type Deps struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
	Gateway  domain.Gateway
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recovery(log))

	// ======================================================
	// 🧠 USE CASES · BOOKING
	// ======================================================
	agendarUC := ucBooking.NewCreateBooking(
		d.Gateway,
		d.Audit,
		log,
		d.Metrics,
		ucBooking.Options{
			Channel:           "agendar",
			PatientKey:        domain.PhoneKey{},
			CheckAvailability: cfg.AgendarCheckAvailability,
		},
	)

	webhookUC := ucBooking.NewCreateBooking(
		d.Gateway,
		d.Audit,
		log,
		d.Metrics,
		ucBooking.Options{
			Channel:           "webhook",
			PatientKey:        domain.DocumentKey{},
			CheckAvailability: cfg.WebhookCheckAvailability,
		},
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(
		agendarUC,
		domain.Assignment{
			UnitID:         cfg.AccountUnidade,
			ProfessionalID: cfg.ProfissionalID,
			ServiceID:      cfg.ServicoID,
			SpecialtyID:    cfg.EspecialidadeID,
		},
		log,
	)
	webhookHandler := handlers.NewWebhookHandler(webhookUC, log)

	// ======================================================
	// 🔓 PUBLIC
	// ======================================================
	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.POST("/agendar", bookingHandler.Agendar)

	// ======================================================
	// 🔐 WEBHOOK (SECRET)
	// ======================================================
	r.POST("/webhook",
		middleware.WebhookSecret(cfg.WebhookSecret, log, d.Metrics),
		webhookHandler.Handle,
	)
}
