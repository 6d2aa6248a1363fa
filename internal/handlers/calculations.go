package handlers

import (
	"encoding/json"
	"net/http"

	"port-billing/internal/logger"
	"port-billing/internal/models"
)

// CalculationHandler обрабатывает запросы на расчет стоимости услуг.
type CalculationHandler struct {
	calcService CalculationService
	log         *logger.Logger
}

// NewCalculationHandler создает обработчик расчетов.
func NewCalculationHandler(calcService CalculationService, log *logger.Logger) *CalculationHandler {
	return &CalculationHandler{
		calcService: calcService,
		log:         log,
	}
}

// Calculate выполняет расчет стоимости услуги на дату.
func (h *CalculationHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ServiceID <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "service_id is required")
		return
	}
	if req.EffectiveDate == "" {
		writeErrorResponse(w, http.StatusBadRequest, "effective_date is required")
		return
	}

	result, err := h.calcService.Calculate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to calculate price")
		return
	}

	h.log.WithFields(map[string]interface{}{
		"service_id":       req.ServiceID,
		"calculation_type": result.CalculationType,
		"price":            result.CalculatedPrice,
		"override":         result.TariffOverrideApplied,
	}).Info("Calculation performed")

	writeJSONResponse(w, http.StatusOK, result)
}
