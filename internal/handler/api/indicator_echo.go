package api

import (
	"bytes"
	"context"
	"errors"

	"BuffettIndicator/internal/domain/models"
	"BuffettIndicator/internal/presenter"
	"BuffettIndicator/internal/service/ratelimit"
	"BuffettIndicator/internal/usecase"
	"BuffettIndicator/pkg/cache"
	xhttp "BuffettIndicator/pkg/http"
	xlogger "BuffettIndicator/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Calculator is the part of the use case the handler needs.
type Calculator interface {
	Calculate(ctx context.Context) (*models.Report, error)
}

var _ Calculator = (*usecase.IndicatorCalculator)(nil)

// IndicatorEchoHandler serves the indicator over HTTP.
type IndicatorEchoHandler struct {
	logger  *xlogger.Logger
	calc    Calculator
	limiter *ratelimit.Limiter
}

func NewIndicatorEchoHandler(logger *xlogger.Logger, calc Calculator, limiter *ratelimit.Limiter) *IndicatorEchoHandler {
	return &IndicatorEchoHandler{logger: logger, calc: calc, limiter: limiter}
}

func (h *IndicatorEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api")
	g.GET("/indicator", h.Indicator)
}

func (h *IndicatorEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *IndicatorEchoHandler) Indicator(c echo.Context) error {
	req := &models.IndicatorRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	if req.Refresh {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh rate limit exceeded"))
		}
		ctx = cache.WithBypass(ctx)
	}

	report, err := h.calc.Calculate(ctx)
	if err != nil {
		if errors.Is(err, usecase.ErrIndicatorUnavailable) {
			h.logger.Warn("indicator unavailable", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError(presenter.UnavailableMessage).WithError(err))
		}
		h.logger.Error("indicator usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if req.Format == "text" {
		var buf bytes.Buffer
		if err := presenter.WriteText(&buf, report); err != nil {
			return xhttp.AppErrorResponse(c, xhttp.InternalError("render report").WithError(err))
		}
		return xhttp.TextResponse(c, buf.String())
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, report)
}
