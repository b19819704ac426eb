package config

import (
	"fmt"
	"math/rand"

	"github.com/pdrpinto/gridpath"
)

// RandomSpec scatters clustered walls over the grid with seeded random walks.
type RandomSpec struct {
	Clusters int     `mapstructure:"clusters" json:"clusters"`
	Steps    int     `mapstructure:"steps" json:"steps"`
	Density  float64 `mapstructure:"density" json:"density"`
	Seed     int64   `mapstructure:"seed" json:"seed"`
}

// Obstacles returns the walls for a width × height grid. The given cells
// are never blocked. The same spec always yields the same walls.
func (r RandomSpec) Obstacles(width, height int, keep ...gridpath.Cell) []gridpath.Obstacle {
	if width <= 0 || height <= 0 {
		return nil
	}
	kept := make(map[gridpath.Cell]bool, len(keep))
	for _, c := range keep {
		kept[c] = true
	}

	random := rand.New(rand.NewSource(r.Seed))
	walls := map[gridpath.Cell]bool{}
	var obstacles []gridpath.Obstacle
	for c := 0; c < r.Clusters; c++ {
		p := gridpath.Cell{X: random.Intn(width), Y: random.Intn(height)}
		for s := 0; s < r.Steps; s++ {
			if random.Float64() < r.Density && !kept[p] && !walls[p] {
				walls[p] = true
				obstacles = append(obstacles, gridpath.At(p))
			}
			np := p.Add(gridpath.Directions[random.Intn(len(gridpath.Directions))])
			if np.X >= 0 && np.X < width && np.Y >= 0 && np.Y < height {
				p = np
			}
		}
	}
	return obstacles
}

func (r RandomSpec) validate() error {
	switch {
	case r.Clusters < 0 || r.Steps < 0:
		return fmt.Errorf("%w: random clusters and steps must not be negative", ErrInvalidScenario)
	case r.Density < 0 || r.Density > 1:
		return fmt.Errorf("%w: random density must be within [0, 1]", ErrInvalidScenario)
	case r.Clusters > 0 && r.Steps > MaxRandomSteps/r.Clusters:
		return fmt.Errorf("%w: random walk of %d×%d steps exceeds %d", ErrInvalidScenario, r.Clusters, r.Steps, MaxRandomSteps)
	}
	return nil
}
