package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/httperr"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/logger"
	"github.com/BruksfildServices01/ninsaude-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/ninsaude-scheduler/internal/usecase/booking"
)

const (
	msgIncomplete  = "Dados incompletos. Informe nome, data e horário."
	msgUnavailable = "Esse horário não está disponível. Por favor, escolha outro."
	msgBooked      = "Consulta agendada com sucesso."
	msgFailed      = "Erro ao tentar agendar."
)

// Booker runs one booking pipeline.
type Booker interface {
	Execute(ctx context.Context, requestID string, req domain.Request) (*ucBooking.Result, error)
}

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type BookingHandler struct {
	booker     Booker
	assignment domain.Assignment
	logger     logger.Logger
}

func NewBookingHandler(booker Booker, assignment domain.Assignment, log logger.Logger) *BookingHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BookingHandler{
		booker:     booker,
		assignment: assignment,
		logger:     log,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type AgendarRequest struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	Data     string `json:"data"` // YYYY-MM-DD
	Hora     string `json:"hora"` // HH:mm
}

////////////////////////////////////////////////////////
// POST /agendar
////////////////////////////////////////////////////////

func (h *BookingHandler) Agendar(c *gin.Context) {
	var in AgendarRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Info("agendar body rejected", "request_id", middleware.RequestID(c), "error", err)
		httpresp.Agendar(c, http.StatusBadRequest, httpresp.AgendarResponse{
			OK:      false,
			Message: msgIncomplete,
		})
		return
	}

	req := domain.Request{
		Name:       in.Nome,
		Key:        in.Telefone,
		Date:       in.Data,
		Time:       in.Hora,
		Assignment: h.assignment,
	}

	// The remote booking is not rolled back if the caller goes away mid-pipeline.
	ctx := context.WithoutCancel(c.Request.Context())

	res, err := h.booker.Execute(ctx, middleware.RequestID(c), req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			httpresp.Agendar(c, http.StatusBadRequest, httpresp.AgendarResponse{
				OK:      false,
				Message: msgIncomplete,
			})
			return
		}

		httpresp.Agendar(c, httperr.Status(err), httpresp.AgendarResponse{
			OK:      false,
			Message: msgFailed,
			Detalhe: httperr.Detail(err),
		})
		return
	}

	if !res.Booked {
		httpresp.Agendar(c, http.StatusOK, httpresp.AgendarResponse{
			OK:      false,
			Message: msgUnavailable,
		})
		return
	}

	httpresp.Agendar(c, http.StatusOK, httpresp.AgendarResponse{
		OK:          true,
		Message:     msgBooked,
		Agendamento: res.Appointment,
	})
}
