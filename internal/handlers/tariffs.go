package handlers

import (
	"encoding/json"
	"net/http"

	"port-billing/internal/logger"
	"port-billing/internal/models"
)

// TariffHandler обрабатывает тарифные записи.
type TariffHandler struct {
	tariffService TariffService
	producer      EventProducer
	log           *logger.Logger
}

// NewTariffHandler создает обработчик тарифов.
func NewTariffHandler(tariffService TariffService, producer EventProducer, log *logger.Logger) *TariffHandler {
	return &TariffHandler{
		tariffService: tariffService,
		producer:      producer,
		log:           log,
	}
}

// CreateTariff создает тарифную запись.
func (h *TariffHandler) CreateTariff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.CreateTariffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ServiceID <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "service_id is required")
		return
	}

	entry, err := h.tariffService.CreateTariff(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create tariff entry")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTariffCreated(entry); err != nil {
			h.log.WithError(err).Error("Failed to publish tariff created event")
		}
	}

	h.log.WithFields(map[string]interface{}{
		"tariff_id":  entry.ID,
		"service_id": entry.ServiceID,
	}).Info("Tariff entry created successfully")

	writeJSONResponse(w, http.StatusCreated, entry)
}

// GetTariff возвращает тарифную запись по id.
func (h *TariffHandler) GetTariff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/tariffs/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.tariffService.GetTariff(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get tariff entry")
		return
	}

	writeJSONResponse(w, http.StatusOK, entry)
}

// UpdateTariff обновляет тарифную запись.
func (h *TariffHandler) UpdateTariff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/tariffs/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateTariffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.tariffService.UpdateTariff(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to update tariff entry")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTariffUpdated(entry); err != nil {
			h.log.WithError(err).Error("Failed to publish tariff updated event")
		}
	}

	writeJSONResponse(w, http.StatusOK, entry)
}

// DeactivateTariff деактивирует тарифную запись.
func (h *TariffHandler) DeactivateTariff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/tariffs/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.tariffService.DeactivateTariff(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to deactivate tariff entry")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTariffDeactivated(entry.ID, entry.ServiceID); err != nil {
			h.log.WithError(err).Error("Failed to publish tariff deactivated event")
		}
	}

	writeJSONResponse(w, http.StatusOK, entry)
}
