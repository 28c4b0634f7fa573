package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRecord es una medición de producción por etapa y turno.
// Append-only: nunca se edita ni se borra; una corrección es un registro nuevo.
// Efficiency y LossPercentage se derivan al momento de escribir y no se
// recalculan destructivamente.
type ProductionRecord struct {
	ID    string
	Date  time.Time
	Shift string
	Stage string

	// Cantidades en kg
	InputQty  decimal.Decimal
	OutputQty decimal.Decimal
	ScrapQty  decimal.Decimal

	// Especificaciones de alambre
	InputSizeMM   *decimal.Decimal
	OutputSizeMM  *decimal.Decimal
	InputSizeSWG  *int
	OutputSizeSWG *int

	// Campos derivados en la escritura
	Efficiency     decimal.Decimal // output/input * 100, 0 si input == 0
	LossPercentage decimal.Decimal // scrap/input * 100, 0 si input == 0

	OperatorName string
	Notes        string
	CreatedAt    time.Time
}

var hundred = decimal.NewFromInt(100)

// ComputeEfficiency deriva el porcentaje de eficiencia de un par input/output.
// Devuelve 0 (no error, no NaN) cuando el input es cero.
func ComputeEfficiency(inputQty, outputQty decimal.Decimal) decimal.Decimal {
	if !inputQty.IsPositive() {
		return decimal.Zero
	}
	return outputQty.Div(inputQty).Mul(hundred)
}

// ComputeLossPercentage deriva el porcentaje de merma sobre el input.
func ComputeLossPercentage(inputQty, scrapQty decimal.Decimal) decimal.Decimal {
	if !inputQty.IsPositive() {
		return decimal.Zero
	}
	return scrapQty.Div(inputQty).Mul(hundred)
}
