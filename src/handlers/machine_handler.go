// src/handlers/machine_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/vendingreader/backend/src/model"
	"github.com/username/vendingreader/backend/src/models"
	"github.com/username/vendingreader/backend/src/services"
	"github.com/username/vendingreader/backend/src/utils"
)

type MachineHandler struct {
	readingService services.ReadingService
}

func NewMachineHandler(service services.ReadingService) *MachineHandler {
	return &MachineHandler{readingService: service}
}

// MachineDetail is a machine with its aggregated readings.
type MachineDetail struct {
	Machine *model.Machine       `json:"machine"`
	Stats   *models.MachineStats `json:"stats"`
}

type manualReadingRequest struct {
	PaidValue   float64 `json:"paid_value"`
	ChangeValue float64 `json:"change_value"`
}

func (h *MachineHandler) HandleListMachines(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	machines, err := h.readingService.GetMachines(r.Context(), userID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, machines, http.StatusOK)
}

func (h *MachineHandler) HandleGetMachine(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	machineID := chi.URLParam(r, "machineID")

	machine, err := h.readingService.GetMachine(r.Context(), userID, machineID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	stats, err := h.readingService.GetMachineStats(r.Context(), userID, machineID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, MachineDetail{Machine: machine, Stats: stats}, http.StatusOK)
}

func (h *MachineHandler) HandleDeleteMachine(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	if err := h.readingService.DeleteMachine(r.Context(), userID, chi.URLParam(r, "machineID")); err != nil {
		sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MachineHandler) HandleListReadings(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	readings, err := h.readingService.GetReadings(r.Context(), userID, chi.URLParam(r, "machineID"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, readings, http.StatusOK)
}

// HandleAddManualReading records a hand-entered reading, creating the machine if needed.
func (h *MachineHandler) HandleAddManualReading(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req manualReadingRequest
	r.Body = http.MaxBytesReader(w, r.Body, 4096)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reading, err := h.readingService.AddManualReading(r.Context(), userID, chi.URLParam(r, "machineID"), req.PaidValue, req.ChangeValue)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, reading, http.StatusCreated)
}
