package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"trial-intake-api/internal/delivery/http/response"
	"trial-intake-api/internal/domain"
	"trial-intake-api/pkg/apperror"
	"trial-intake-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const (
	TrialPath = "/api/trial"

	noteNoWebhook = "No webhook configured"

	maxTrialBodyBytes = 64 << 10
)

type TrialHandler struct {
	trialUC domain.TrialUsecase
}

// NewTrialHandler registers the public free-trial route. Only POST is
// registered; other methods fall through to the router's 405 handler.
func NewTrialHandler(r gin.IRoutes, trialUC domain.TrialUsecase, limiter gin.HandlerFunc) {
	handler := &TrialHandler{
		trialUC: trialUC,
	}

	r.POST(TrialPath, limiter, handler.SubmitTrial)
}

// SubmitTrial godoc
// @Summary      Request a free trial
// @Description  Validates the email and relays a notification to the configured Discord webhook.
// @Tags         trial
// @Accept       json
// @Produce      json
// @Param        trial  body      domain.TrialRequest  true  "Trial request"
// @Success      200    {object}  response.OKResponse
// @Failure      400    {object}  response.ErrorResponse
// @Failure      405    {object}  response.ErrorResponse
// @Failure      429    {object}  response.ErrorResponse
// @Failure      500    {object}  response.ErrorResponse
// @Failure      502    {object}  response.ErrorResponse
// @Router       /api/trial [post]
func (h *TrialHandler) SubmitTrial(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTrialBodyBytes)

	var req domain.TrialRequest
	if err := c.ShouldBindJSON(&req); err != nil && !isLenientBindError(err) {
		metrics.TrialSubmissions.WithLabelValues(metrics.OutcomeInternalError).Inc()
		_ = c.Error(apperror.Internal(err))
		return
	}

	result, err := h.trialUC.SubmitTrial(c.Request.Context(), &req)
	if err != nil {
		metrics.TrialSubmissions.WithLabelValues(outcomeFor(err)).Inc()
		_ = c.Error(err)
		return
	}

	if !result.Relayed {
		metrics.TrialSubmissions.WithLabelValues(metrics.OutcomeNotRelayed).Inc()
		response.OK(c, http.StatusOK, noteNoWebhook)
		return
	}

	metrics.TrialSubmissions.WithLabelValues(metrics.OutcomeRelayed).Inc()
	response.OK(c, http.StatusOK, "")
}

// isLenientBindError reports decode errors that leave the request as an
// empty or partial submission: an empty body, or fields of the wrong JSON
// type (which the decoder skips while filling the rest).
func isLenientBindError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.Is(err, io.EOF) || errors.As(err, &typeErr)
}

func outcomeFor(err error) string {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return metrics.OutcomeInternalError
	}
	switch appErr.Code {
	case http.StatusBadRequest:
		return metrics.OutcomeInvalid
	case http.StatusBadGateway:
		return metrics.OutcomeGatewayError
	default:
		return metrics.OutcomeInternalError
	}
}
