package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/editorconfig"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Stage string `json:"stage,omitempty"`
}

// StatusFor maps an evaluation error to an HTTP status code
func StatusFor(err error) int {
	kind, ok := editorconfig.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case editorconfig.KindScriptEvaluation, editorconfig.KindSerialization:
		return http.StatusUnprocessableEntity
	case editorconfig.KindTimeout:
		return http.StatusGatewayTimeout
	case editorconfig.KindThreadSpawn:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	kind, stage := editorconfig.Describe(err)
	_ = c.Error(err)
	c.JSON(StatusFor(err), ErrorResponse{
		Error: err.Error(),
		Kind:  kind,
		Stage: stage,
	})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: err.Error(),
		Kind:  "bad_request",
	})
}
