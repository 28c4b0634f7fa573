package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

// StageHandler expone la configuración del pipeline de etapas.
type StageHandler struct {
	graph *stagegraph.Graph
}

// NewStageHandler construye el handler.
func NewStageHandler(graph *stagegraph.Graph) *StageHandler {
	return &StageHandler{graph: graph}
}

// Config devuelve las definiciones de todas las etapas en orden de secuencia.
// GET /api/stages
func (h *StageHandler) Config(c *fiber.Ctx) error {
	defs := h.graph.Stages()
	out := make([]dto.StageConfigResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, dto.StageConfigResponse{
			Stage:             def.Stage,
			SequenceOrder:     def.SequenceOrder,
			ExpectedInputMM:   def.ExpectedInputSizeMM,
			ExpectedOutputMM:  def.ExpectedOutputSizeMM,
			MinEfficiency:     def.MinEfficiency,
			MaxLossPercentage: def.MaxLossPercentage,
			HasAnnealing:      def.HasAnnealing,
		})
	}
	return c.JSON(out)
}
