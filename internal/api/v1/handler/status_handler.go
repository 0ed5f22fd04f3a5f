package handler

import (
	"net/http"

	"arcronym/internal/api/v1/dto"
	"arcronym/internal/service"
)

type StatusHandler struct {
	statusService service.StatusService
}

func NewStatusHandler(statusService service.StatusService) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

func (h *StatusHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /status", h.getStatus)
}

// getStatus godoc
// @Summary Summarise stored data
// @Tags status
// @Produce json
// @Success 200 {object} dto.StatusResponseDTO
// @Router /status [get]
func (h *StatusHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	text, err := h.statusService.StatusText(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponseDTO{Status: text})
}
