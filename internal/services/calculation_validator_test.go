package services

import (
	"testing"

	"port-billing/internal/apperror"
	"port-billing/internal/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

func fullParams() *models.CalculationParams {
	return &models.CalculationParams{
		Quantity:        floatPtr(45),
		PersonCount:     floatPtr(3),
		MultiplierX:     floatPtr(0.03),
		WeightTons:      floatPtr(500),
		BlockSize:       floatPtr(30),
		BaseThreshold:   floatPtr(1000),
		DurationMinutes: floatPtr(241),
	}
}

func TestValidateCalculationParams_UnknownType(t *testing.T) {
	err := ValidateCalculationParams("hourly", fullParams())
	if !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if apperror.FieldOf(err) != "calculation_type" {
		t.Fatalf("expected field calculation_type, got %q", apperror.FieldOf(err))
	}
}

func TestValidateCalculationParams_FixedNeedsNothing(t *testing.T) {
	if err := ValidateCalculationParams(models.CalculationTypeFixed, &models.CalculationParams{}); err != nil {
		t.Fatalf("expected no error for fixed, got %v", err)
	}
}

func TestValidateCalculationParams_MissingRequired(t *testing.T) {
	cases := []struct {
		calcType models.CalculationType
		remove   func(p *models.CalculationParams)
		field    string
	}{
		{models.CalculationTypePerUnit, func(p *models.CalculationParams) { p.PersonCount = nil }, "person_count"},
		{models.CalculationTypeSecondaryMultiplier, func(p *models.CalculationParams) { p.PersonCount = nil }, "person_count"},
		{models.CalculationTypeSecondaryMultiplier, func(p *models.CalculationParams) { p.MultiplierX = nil }, "multiplier_x"},
		{models.CalculationTypeSecondaryMultiplier, func(p *models.CalculationParams) { p.WeightTons = nil }, "weight_tons"},
		{models.CalculationTypePerBlock, func(p *models.CalculationParams) { p.Quantity = nil }, "quantity"},
		{models.CalculationTypePerBlock, func(p *models.CalculationParams) { p.BlockSize = nil }, "block_size"},
		{models.CalculationTypeBasePlusIncrement, func(p *models.CalculationParams) { p.Quantity = nil }, "quantity"},
		{models.CalculationTypeBasePlusIncrement, func(p *models.CalculationParams) { p.BaseThreshold = nil }, "base_threshold"},
		{models.CalculationTypeVehicle4HourRule, func(p *models.CalculationParams) { p.DurationMinutes = nil }, "duration_minutes"},
	}

	for _, tc := range cases {
		params := fullParams()
		tc.remove(params)

		err := ValidateCalculationParams(tc.calcType, params)
		if !apperror.Is(err, apperror.KindValidation) {
			t.Errorf("%s without %s: expected validation error, got %v", tc.calcType, tc.field, err)
			continue
		}
		if apperror.FieldOf(err) != tc.field {
			t.Errorf("%s: expected field %q, got %q", tc.calcType, tc.field, apperror.FieldOf(err))
		}
	}
}

func TestValidateCalculationParams_NonPositiveValues(t *testing.T) {
	cases := []struct {
		name     string
		calcType models.CalculationType
		mutate   func(p *models.CalculationParams)
		field    string
	}{
		{"zero block_size", models.CalculationTypePerBlock, func(p *models.CalculationParams) { p.BlockSize = floatPtr(0) }, "block_size"},
		{"negative quantity", models.CalculationTypePerBlock, func(p *models.CalculationParams) { p.Quantity = floatPtr(-1) }, "quantity"},
		{"zero person_count", models.CalculationTypePerUnit, func(p *models.CalculationParams) { p.PersonCount = floatPtr(0) }, "person_count"},
		{"negative duration", models.CalculationTypeVehicle4HourRule, func(p *models.CalculationParams) { p.DurationMinutes = floatPtr(-5) }, "duration_minutes"},
		{"zero multiplier", models.CalculationTypeSecondaryMultiplier, func(p *models.CalculationParams) { p.MultiplierX = floatPtr(0) }, "multiplier_x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := fullParams()
			tc.mutate(params)

			err := ValidateCalculationParams(tc.calcType, params)
			if !apperror.Is(err, apperror.KindInvalidParameter) {
				t.Fatalf("expected invalid parameter error, got %v", err)
			}
			if apperror.FieldOf(err) != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, apperror.FieldOf(err))
			}
		})
	}
}

func TestValidateCalculationParams_PerBlockOptionalMultiplier(t *testing.T) {
	params := fullParams()
	params.MultiplierX = nil
	if err := ValidateCalculationParams(models.CalculationTypePerBlock, params); err != nil {
		t.Fatalf("multiplier_x should be optional for per_block, got %v", err)
	}

	params.MultiplierX = floatPtr(-2)
	err := ValidateCalculationParams(models.CalculationTypePerBlock, params)
	if !apperror.Is(err, apperror.KindInvalidParameter) {
		t.Fatalf("expected invalid parameter for negative multiplier_x, got %v", err)
	}
	if apperror.FieldOf(err) != "multiplier_x" {
		t.Fatalf("expected field multiplier_x, got %q", apperror.FieldOf(err))
	}
}

func TestValidateCalculationParams_NilParams(t *testing.T) {
	err := ValidateCalculationParams(models.CalculationTypePerUnit, nil)
	if !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error for nil params, got %v", err)
	}
}
