package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vision is an angular food sensor split into equal cells across its field of
// view.
type Vision struct {
	Range float32
	Angle float32
	Cells int
}

func NewVision(visionRange, angle float32, cells int) Vision {
	return Vision{Range: visionRange, Angle: angle, Cells: cells}
}

func DefaultVision() Vision {
	return NewVision(DefaultVisionRange, DefaultVisionAngle, DefaultVisionCells)
}

func (v Vision) Validate() error {
	if v.Cells <= 0 {
		return fmt.Errorf("cells must be positive, got %d", v.Cells)
	}
	if v.Range <= 0 {
		return fmt.Errorf("range must be positive, got %v", v.Range)
	}
	if v.Angle <= 0 || v.Angle > 2*math.Pi {
		return errors.New("angle must be within (0, 2*pi]")
	}
	return nil
}

// Process returns one proximity-weighted food reading per cell. Obstacles are
// accepted but do not contribute to the reading.
func (v Vision) Process(position mgl32.Vec2, heading float32, food []Food, _ []Obstacle) []float32 {
	cells := make([]float32, v.Cells)
	half := v.Angle / 2

	for _, f := range food {
		offset := f.position.Sub(position)
		dist := offset.Len()
		if dist > v.Range {
			continue
		}

		angle := float32(math.Atan2(float64(offset.Y()), float64(offset.X())))
		angle = wrapAngle(angle - heading)
		if angle < -half || angle > half {
			continue
		}

		cell := int((angle + half) / v.Angle * float32(v.Cells))
		cell = min(cell, v.Cells-1)
		cells[cell] += (v.Range - dist) / v.Range
	}
	return cells
}
