package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/slotswap/internal/model"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{model.ErrValidation, http.StatusBadRequest, "validation_error"},
	{model.ErrNotFound, http.StatusNotFound, "not_found"},
	{model.ErrForbidden, http.StatusForbidden, "forbidden"},
	{model.ErrSelfSwap, http.StatusBadRequest, "self_swap"},
	{model.ErrSlotNotSwappable, http.StatusConflict, "slot_not_swappable"},
	{model.ErrSlotLocked, http.StatusConflict, "slot_locked"},
	{model.ErrAlreadyResolved, http.StatusConflict, "already_resolved"},
	{model.ErrConflict, http.StatusConflict, "conflict"},
	{model.ErrInconsistentState, http.StatusInternalServerError, "inconsistent_state"},
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.describe(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func (s *Server) describe(err error) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		// Binding errors carry the decoder error, which may be a domain validation error.
		if m, ok := lookupMapping(he.Internal); ok {
			return m.response(he.Internal)
		}
		return he.Code, errorResponse{Error: fmt.Sprint(he.Message), Code: httpCode(he.Code)}
	}

	if m, ok := lookupMapping(err); ok {
		return m.response(err)
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal"}
}

func lookupMapping(err error) (errorMapping, bool) {
	if err == nil {
		return errorMapping{}, false
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m, true
		}
	}
	return errorMapping{}, false
}

func (m errorMapping) response(err error) (int, errorResponse) {
	msg := err.Error()
	if m.status >= http.StatusInternalServerError {
		msg = "internal state error"
	}
	return m.status, errorResponse{Error: msg, Code: m.code}
}

func httpCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	}
	return "http_error"
}
