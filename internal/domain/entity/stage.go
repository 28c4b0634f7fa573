package entity

import "github.com/shopspring/decimal"

// Turnos de producción.
const (
	ShiftMorning   = "Morning"
	ShiftAfternoon = "Afternoon"
	ShiftNight     = "Night"
)

// ValidShift verifica que el turno sea uno de los tres definidos en planta.
func ValidShift(shift string) bool {
	switch shift {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

// Etapas del proceso secuencial de trefilado:
// RBD → Inter → Oven → DPC → Rewind.
const (
	StageRBD    = "RBD"
	StageInter  = "Inter"
	StageOven   = "Oven"
	StageDPC    = "DPC"
	StageRewind = "Rewind"
)

// Etapas extendidas posteriores a producción. Solo seguimiento de bobinas:
// no generan registros de producción.
const (
	StageQualityCheck = "Quality Check"
	StagePackaging    = "Packaging"
	StageDispatch     = "Dispatch"
)

// StageDefinition es la configuración inmutable de una etapa: posición en la
// secuencia, especificaciones esperadas de alambre y umbrales de desempeño.
// Exactamente una definición por etapa; sequence_order contiguo desde 1.
type StageDefinition struct {
	Stage                string
	SequenceOrder        int
	ExpectedInputSizeMM  *decimal.Decimal
	ExpectedOutputSizeMM *decimal.Decimal
	MinEfficiency        decimal.Decimal // % mínimo aceptable
	MaxLossPercentage    decimal.Decimal // % máximo aceptable de merma
	HasAnnealing         bool            // true solo para Oven
	TrackingOnly         bool            // etapa sin registros de producción
}
