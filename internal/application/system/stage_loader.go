package system

import (
	"errors"
	"fmt"

	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/domain/geom"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
)

// LoadStage converts a StageConfig into a Stage entity.
// Missing cells are buildable; unknown tile characters are blocked.
func LoadStage(cfg *config.StageConfig) (*entity.Stage, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 || cfg.CellSize <= 0 {
		return nil, fmt.Errorf("stage %s: grid size and cell size must be positive", cfg.ID)
	}
	if len(cfg.Path) == 0 {
		return nil, fmt.Errorf("stage %s: %w", cfg.ID, errors.New("path has no waypoints"))
	}

	cells := make([][]entity.CellType, cfg.Rows)
	for y := range cells {
		cells[y] = make([]entity.CellType, cfg.Cols)
		if y >= len(cfg.Tiles) {
			continue
		}
		for x, char := range cfg.Tiles[y] {
			if x >= cfg.Cols {
				break
			}
			switch char {
			case '.':
				cells[y][x] = entity.CellBuildable
			case '=':
				cells[y][x] = entity.CellPath
			default:
				cells[y][x] = entity.CellBlocked
			}
		}
	}

	stage := &entity.Stage{
		Name:     cfg.Name,
		Cols:     cfg.Cols,
		Rows:     cfg.Rows,
		CellSize: cfg.CellSize,
		Cells:    cells,
		Path:     make([]geom.Vec, 0, len(cfg.Path)),
	}
	for _, c := range cfg.Path {
		stage.Path = append(stage.Path, stage.CellCenter(c[0], c[1]))
	}
	return stage, nil
}
