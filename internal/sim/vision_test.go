package sim

import (
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func foodAt(x, y float32) Food {
	return Food{position: mgl32.Vec2{x, y}}
}

func TestVisionFoodStraightAheadLandsInCentreCell(t *testing.T) {
	vision := DefaultVision()
	cells := vision.Process(mgl32.Vec2{0.5, 0.5}, 0, []Food{foodAt(0.6, 0.5)}, nil)

	if len(cells) != DefaultVisionCells {
		t.Fatalf("cells=%d want=%d", len(cells), DefaultVisionCells)
	}
	for i, v := range cells {
		if i == DefaultVisionCells/2 {
			if math.Abs(float64(v)-0.6) > 1e-5 {
				t.Fatalf("centre cell=%f want=0.6", v)
			}
			continue
		}
		if v != 0 {
			t.Fatalf("cell %d=%f should be empty", i, v)
		}
	}
}

func TestVisionIgnoresFoodOutOfRangeOrBehind(t *testing.T) {
	vision := DefaultVision()
	food := []Food{
		foodAt(0.9, 0.5),  // beyond range
		foodAt(0.4, 0.5),  // directly behind
		foodAt(0.5, 0.75), // exactly at range
	}
	cells := vision.Process(mgl32.Vec2{0.5, 0.5}, 0, food, nil)
	for i, v := range cells {
		if v != 0 {
			t.Fatalf("cell %d=%f should be empty", i, v)
		}
	}
}

func TestVisionIsRelativeToHeading(t *testing.T) {
	vision := DefaultVision()
	food := []Food{foodAt(0.5, 0.6)}

	left := vision.Process(mgl32.Vec2{0.5, 0.5}, 0, food, nil)
	ahead := vision.Process(mgl32.Vec2{0.5, 0.5}, math.Pi/2, food, nil)

	if idx := slices.IndexFunc(left, func(v float32) bool { return v > 0 }); idx <= DefaultVisionCells/2 {
		t.Fatalf("food to the left should land in an upper cell, got %d", idx)
	}
	if idx := slices.IndexFunc(ahead, func(v float32) bool { return v > 0 }); idx != DefaultVisionCells/2 {
		t.Fatalf("food ahead after turning should land in centre cell, got %d", idx)
	}
}

func TestVisionAccumulatesWithinCell(t *testing.T) {
	vision := NewVision(0.25, math.Pi, 1)
	cells := vision.Process(mgl32.Vec2{0.5, 0.5}, 0, []Food{foodAt(0.55, 0.5), foodAt(0.6, 0.5)}, nil)
	if math.Abs(float64(cells[0])-(0.8+0.6)) > 1e-5 {
		t.Fatalf("unexpected accumulated reading: %f", cells[0])
	}
}

func TestVisionObstaclesDoNotContribute(t *testing.T) {
	vision := DefaultVision()
	food := []Food{foodAt(0.6, 0.52), foodAt(0.55, 0.45)}
	obstacles := boundaryObstacles(DefaultObstaclesPerEdge, DefaultObstacleSpacing)
	obstacles = append(obstacles, Obstacle{position: mgl32.Vec2{0.55, 0.5}})

	without := vision.Process(mgl32.Vec2{0.5, 0.5}, 0.3, food, nil)
	with := vision.Process(mgl32.Vec2{0.5, 0.5}, 0.3, food, obstacles)
	if !slices.Equal(with, without) {
		t.Fatalf("obstacles changed vision: with=%v without=%v", with, without)
	}
}

func TestVisionValidate(t *testing.T) {
	tests := []struct {
		name    string
		vision  Vision
		wantErr bool
	}{
		{name: "default", vision: DefaultVision()},
		{name: "no-cells", vision: NewVision(0.25, math.Pi, 0), wantErr: true},
		{name: "no-range", vision: NewVision(0, math.Pi, 4), wantErr: true},
		{name: "wide-angle", vision: NewVision(0.25, 7, 4), wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.vision.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("unexpected validation result: %v", err)
			}
		})
	}
}
