package repository

import "github.com/tulsipower/production-monitor/internal/domain/entity"

// StageRepository define el puerto de persistencia para la configuración de
// etapas del pipeline. La configuración se carga al arranque y cambia poco.
type StageRepository interface {
	List() ([]*entity.StageDefinition, error)
	Get(stage string) (*entity.StageDefinition, error)
	// Seed inserta las definiciones si la tabla está vacía (arranque inicial).
	Seed(defs []*entity.StageDefinition) error
}
