package services

import (
	"fmt"

	"port-billing/internal/apperror"
	"port-billing/internal/models"
)

// requiredParams — обязательные параметры по типу расчета.
var requiredParams = map[models.CalculationType][]string{
	models.CalculationTypeFixed:               {},
	models.CalculationTypePerUnit:             {"person_count"},
	models.CalculationTypeSecondaryMultiplier: {"person_count", "multiplier_x", "weight_tons"},
	models.CalculationTypePerBlock:            {"quantity", "block_size"},
	models.CalculationTypeBasePlusIncrement:   {"quantity", "base_threshold"},
	models.CalculationTypeVehicle4HourRule:    {"duration_minutes"},
}

// ValidateCalculationParams проверяет параметры запроса для типа расчета.
// Отсутствующий обязательный параметр — ошибка валидации с именем поля;
// присутствующий, но неположительный (в т.ч. block_size = 0, отрицательная
// длительность) — ошибка некорректного параметра. Деление на ноль в PerBlock
// отсекается здесь, до какой-либо арифметики.
func ValidateCalculationParams(calcType models.CalculationType, params *models.CalculationParams) error {
	if !calcType.IsValid() {
		return apperror.Validation(fmt.Sprintf("unknown calculation_type %q", calcType), "calculation_type")
	}

	for _, name := range requiredParams[calcType] {
		value := paramByName(params, name)
		if value == nil {
			return apperror.Validation(fmt.Sprintf("%s is required for %s calculation", name, calcType), name)
		}
		if *value <= 0 {
			return apperror.InvalidParameter(fmt.Sprintf("%s must be positive, got %v", name, *value), name)
		}
	}

	// Необязательные параметры, если переданы, тоже должны быть положительными.
	if calcType == models.CalculationTypePerBlock && params.MultiplierX != nil && *params.MultiplierX <= 0 {
		return apperror.InvalidParameter(fmt.Sprintf("multiplier_x must be positive, got %v", *params.MultiplierX), "multiplier_x")
	}

	return nil
}

// paramByName достает значение параметра по его wire-имени.
func paramByName(params *models.CalculationParams, name string) *float64 {
	if params == nil {
		return nil
	}
	switch name {
	case "quantity":
		return params.Quantity
	case "person_count":
		return params.PersonCount
	case "multiplier_x":
		return params.MultiplierX
	case "weight_tons":
		return params.WeightTons
	case "block_size":
		return params.BlockSize
	case "base_threshold":
		return params.BaseThreshold
	case "duration_minutes":
		return params.DurationMinutes
	}
	return nil
}
