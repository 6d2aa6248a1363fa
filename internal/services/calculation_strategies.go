package services

import (
	"math"

	"port-billing/internal/models"
)

// freeMinutes — бесплатный период правила "4 часа" для транспортных средств.
const freeMinutes = 240.0

// strategyInput — входы одной стратегии расчета.
// UnitPrice — разрешенная цена (тарифная запись, если найдена, иначе базовая
// цена услуги). BasePrice — всегда базовая цена из карточки услуги: нужна
// стратегиям, где тарифная цена играет роль вторичной ставки.
type strategyInput struct {
	UnitPrice float64
	BasePrice float64
	Params    *models.CalculationParams
}

// strategyOutput — цена без финального округления, формула и расшифровка.
type strategyOutput struct {
	Price     float64
	Formula   string
	Breakdown []models.BreakdownItem
}

// applyStrategy вычисляет цену по типу расчета. Вызывается только после
// успешной валидации параметров, поэтому не проверяет их повторно.
// Каждая ветка — тотальная чистая функция без паник.
func applyStrategy(calcType models.CalculationType, in strategyInput) strategyOutput {
	switch calcType {
	case models.CalculationTypeFixed:
		return calcFixed(in)
	case models.CalculationTypePerUnit:
		return calcPerUnit(in)
	case models.CalculationTypeSecondaryMultiplier:
		return calcSecondaryMultiplier(in)
	case models.CalculationTypePerBlock:
		return calcPerBlock(in)
	case models.CalculationTypeBasePlusIncrement:
		return calcBasePlusIncrement(in)
	case models.CalculationTypeVehicle4HourRule:
		return calcVehicle4Hour(in)
	default:
		// Недостижимо: тип проверен валидатором.
		return strategyOutput{}
	}
}

// calcFixed: фиксированная цена услуги.
func calcFixed(in strategyInput) strategyOutput {
	return strategyOutput{
		Price:   in.UnitPrice,
		Formula: "unit_price",
		Breakdown: []models.BreakdownItem{
			{Label: "unit_price", Value: in.UnitPrice},
		},
	}
}

// calcPerUnit: цена за человека.
func calcPerUnit(in strategyInput) strategyOutput {
	personCount := *in.Params.PersonCount
	price := in.UnitPrice * personCount
	return strategyOutput{
		Price:   price,
		Formula: "unit_price * person_count",
		Breakdown: []models.BreakdownItem{
			{Label: "unit_price", Value: in.UnitPrice},
			{Label: "person_count", Value: personCount},
			{Label: "price", Value: price},
		},
	}
}

// calcSecondaryMultiplier: ставка против тоннажа судна, умноженная на
// количество людей (например 0.03 * 500 GT * 3 чел).
func calcSecondaryMultiplier(in strategyInput) strategyOutput {
	multiplier := *in.Params.MultiplierX
	weightTons := *in.Params.WeightTons
	personCount := *in.Params.PersonCount
	price := multiplier * weightTons * personCount
	return strategyOutput{
		Price:   price,
		Formula: "multiplier_x * weight_tons * person_count",
		Breakdown: []models.BreakdownItem{
			{Label: "multiplier_x", Value: multiplier},
			{Label: "weight_tons", Value: weightTons},
			{Label: "person_count", Value: personCount},
			{Label: "price", Value: price},
		},
	}
}

// calcPerBlock: количество округляется вверх до целого блока — неполный блок
// оплачивается как полный.
func calcPerBlock(in strategyInput) strategyOutput {
	quantity := *in.Params.Quantity
	blockSize := *in.Params.BlockSize
	multiplier := 1.0
	if in.Params.MultiplierX != nil {
		multiplier = *in.Params.MultiplierX
	}

	blocks := math.Ceil(quantity / blockSize)
	price := blocks * in.UnitPrice * multiplier
	return strategyOutput{
		Price:   price,
		Formula: "ceil(quantity / block_size) * unit_price * multiplier_x",
		Breakdown: []models.BreakdownItem{
			{Label: "quantity", Value: quantity},
			{Label: "block_size", Value: blockSize},
			{Label: "blocks", Value: blocks},
			{Label: "unit_price", Value: in.UnitPrice},
			{Label: "multiplier_x", Value: multiplier},
			{Label: "price", Value: price},
		},
	}
}

// calcBasePlusIncrement: базовая цена услуги действует как фиксированная плата
// до порога; сверх порога каждый юнит оплачивается по разрешенной тарифной
// цене, которая для этого типа играет роль инкрементной ставки.
func calcBasePlusIncrement(in strategyInput) strategyOutput {
	quantity := *in.Params.Quantity
	threshold := *in.Params.BaseThreshold
	incrementRate := in.UnitPrice

	excess := quantity - threshold
	if excess < 0 {
		excess = 0
	}
	price := in.BasePrice + excess*incrementRate
	return strategyOutput{
		Price:   price,
		Formula: "base_price + max(0, quantity - base_threshold) * increment_rate",
		Breakdown: []models.BreakdownItem{
			{Label: "base_price", Value: in.BasePrice},
			{Label: "quantity", Value: quantity},
			{Label: "base_threshold", Value: threshold},
			{Label: "excess", Value: excess},
			{Label: "increment_rate", Value: incrementRate},
			{Label: "price", Value: price},
		},
	}
}

// calcVehicle4Hour: базовая цена покрывает первые 240 минут, минуты сверх
// оплачиваются по разрешенной цене за минуту.
func calcVehicle4Hour(in strategyInput) strategyOutput {
	duration := *in.Params.DurationMinutes
	perMinuteRate := in.UnitPrice

	excess := duration - freeMinutes
	if excess < 0 {
		excess = 0
	}
	price := in.BasePrice + excess*perMinuteRate
	return strategyOutput{
		Price:   price,
		Formula: "base_price + max(0, duration_minutes - 240) * per_minute_rate",
		Breakdown: []models.BreakdownItem{
			{Label: "base_price", Value: in.BasePrice},
			{Label: "duration_minutes", Value: duration},
			{Label: "free_minutes", Value: freeMinutes},
			{Label: "excess", Value: excess},
			{Label: "per_minute_rate", Value: perMinuteRate},
			{Label: "price", Value: price},
		},
	}
}
