package health

import (
	"net/http"
	"todoapi/shared/constant"
	"todoapi/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	status *Status
}

func New(status *Status) Handler {
	return Handler{
		status: status,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports whether the server accepts traffic.
// @Summary Health check
// @Description 200 while serving, 503 once shutdown has begun.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /health [get]
func (handler *Handler) Health(writer http.ResponseWriter, _ *http.Request) {
	if !handler.status.Ready() {
		response.WithUnhealthy(writer)

		return
	}

	response.WithMessage(writer, http.StatusOK, constant.ResponseHealthy)
}
