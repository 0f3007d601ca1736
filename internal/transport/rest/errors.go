package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/networth_dashboard/internal/model/httpModel"
	"github.com/KotFed0t/networth_dashboard/internal/service"
	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/gin-gonic/gin"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidPeriod), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMissingCredentials):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, op string, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error(
			"request failed",
			slog.String("rqID", utils.GetRequestIDFromCtx(c.Request.Context())),
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, httpModel.Error{Error: msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, httpModel.Error{Error: err.Error()})
}
