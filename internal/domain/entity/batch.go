package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un lote (bobina).
const (
	BatchStatusActive   = "ACTIVE"
	BatchStatusOnHold   = "ON_HOLD"
	BatchStatusConsumed = "CONSUMED"
)

// Acciones del historial de pausas.
const (
	HoldActionHold   = "HOLD"
	HoldActionResume = "RESUME"
)

// HoldEntry es una entrada inmutable del historial de pausas de un lote.
type HoldEntry struct {
	Action    string    `json:"action"` // HOLD | RESUME
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Batch es la bobina física que se rastrea individualmente por la planta.
// Es una de las dos proyecciones mutables del sistema; sus journey events y
// su hold history son logs append-only que permiten reconstruirla.
//
// Invariantes: 0 <= RemainingQuantity <= Quantity; CurrentStage pertenece a
// StageSequence (o nil antes del primer movimiento); un lote CONSUMED no
// acepta ninguna mutación; un lote ON_HOLD no acepta movimientos.
type Batch struct {
	ID          string
	BatchNumber string // único

	LotNumber    string // lote del proveedor
	MaterialType string
	SupplierName string

	Quantity          decimal.Decimal // cantidad original en kg
	RemainingQuantity decimal.Decimal

	CurrentStage  *string
	CurrentStatus string

	// Secuencia ordenada de etapas que este lote debe recorrer
	StageSequence []string

	HoldHistory []HoldEntry

	OrderID      string // opcional: orden de cliente vinculada
	ReceivedDate *time.Time
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// JourneyProgress resume el avance del lote sobre su secuencia de etapas.
type JourneyProgress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Progress calcula el avance: índice de la etapa actual dentro de la
// secuencia (+1), 0 si aún no inició.
func (b *Batch) Progress() JourneyProgress {
	total := len(b.StageSequence)
	completed := 0
	if b.CurrentStage != nil {
		if idx := b.StageIndex(*b.CurrentStage); idx >= 0 {
			completed = idx + 1
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	return JourneyProgress{
		Completed:  completed,
		Total:      total,
		Percentage: roundTo1(pct),
	}
}

// StageIndex devuelve la posición de una etapa en la secuencia del lote, o -1.
func (b *Batch) StageIndex(stage string) int {
	for i, s := range b.StageSequence {
		if s == stage {
			return i
		}
	}
	return -1
}

// TerminalStage es la última etapa de la secuencia ("" si está vacía).
func (b *Batch) TerminalStage() string {
	if len(b.StageSequence) == 0 {
		return ""
	}
	return b.StageSequence[len(b.StageSequence)-1]
}

// IsOnHold indica si el lote está pausado.
func (b *Batch) IsOnHold() bool { return b.CurrentStatus == BatchStatusOnHold }

// IsConsumed indica si el lote ya agotó todo su material.
func (b *Batch) IsConsumed() bool { return b.CurrentStatus == BatchStatusConsumed }

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// BatchJourneyEvent es el registro inmutable de un movimiento de lote.
// Append-only; un evento por movimiento. La suma de Quantity + ScrapQuantity
// sobre los eventos de un lote nunca excede su Quantity original.
type BatchJourneyEvent struct {
	ID      string
	BatchID string

	FromStage *string
	ToStage   string

	Quantity      decimal.Decimal
	ScrapQuantity decimal.Decimal

	Operator string
	Notes    string

	MovementDate time.Time
}
