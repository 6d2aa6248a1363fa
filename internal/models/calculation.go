package models

import "time"

// DateLayout — формат дат в API (ISO, без времени).
const DateLayout = "2006-01-02"

// CalculationType определяет формулу расчета стоимости услуги.
type CalculationType string

const (
	CalculationTypeFixed               CalculationType = "fixed"
	CalculationTypePerUnit             CalculationType = "per_unit"
	CalculationTypeSecondaryMultiplier CalculationType = "secondary_multiplier"
	CalculationTypePerBlock            CalculationType = "per_block"
	CalculationTypeBasePlusIncrement   CalculationType = "base_plus_increment"
	CalculationTypeVehicle4HourRule    CalculationType = "vehicle_4_hour_rule"
)

// IsValid проверяет, что тип расчета входит в закрытый набор.
func (t CalculationType) IsValid() bool {
	switch t {
	case CalculationTypeFixed,
		CalculationTypePerUnit,
		CalculationTypeSecondaryMultiplier,
		CalculationTypePerBlock,
		CalculationTypeBasePlusIncrement,
		CalculationTypeVehicle4HourRule:
		return true
	}
	return false
}

// CalculationParams — числовые параметры запроса. Каждый параметр опционален,
// обязательность зависит от типа расчета и проверяется валидатором.
type CalculationParams struct {
	Quantity        *float64 `json:"quantity,omitempty"`
	PersonCount     *float64 `json:"person_count,omitempty"`
	MultiplierX     *float64 `json:"multiplier_x,omitempty"`
	WeightTons      *float64 `json:"weight_tons,omitempty"`
	BlockSize       *float64 `json:"block_size,omitempty"`
	BaseThreshold   *float64 `json:"base_threshold,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
}

// CalculationRequest представляет запрос на расчет стоимости.
// CalculationType обычно совпадает с типом из карточки услуги, но может быть
// переопределен вызывающей стороной для what-if расчетов; пустое значение
// означает "взять тип из карточки услуги".
type CalculationRequest struct {
	ServiceID       int64           `json:"service_id"`
	EffectiveDate   string          `json:"effective_date"` // YYYY-MM-DD
	CalculationType CalculationType `json:"calculation_type,omitempty"`
	CalculationParams
}

// ParseEffectiveDate разбирает дату запроса в формате DateLayout.
func (r *CalculationRequest) ParseEffectiveDate() (time.Time, error) {
	return time.Parse(DateLayout, r.EffectiveDate)
}

// BreakdownItem — одна строка трассировки расчета: метка и значение.
// Порядок строк фиксирован формулой, поэтому breakdown — слайс, а не map.
type BreakdownItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CalculationResult представляет результат расчета с полной расшифровкой.
// Результат детерминирован: для фиксированных входов и снапшота тарифов
// движок возвращает побитово идентичный ответ.
type CalculationResult struct {
	CalculatedPrice       float64         `json:"calculated_price"`
	Currency              string          `json:"currency"`
	CalculationType       CalculationType `json:"calculation_type"`
	FormulaUsed           string          `json:"formula_used"`
	Breakdown             []BreakdownItem `json:"breakdown"`
	TariffOverrideApplied bool            `json:"tariff_override_applied"`
	EffectiveDate         string          `json:"effective_date"`
}
