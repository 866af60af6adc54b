package sim

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

type Food struct {
	position mgl32.Vec2
}

func RandomFood(rng *rand.Rand) Food {
	return Food{position: randomPoint(rng)}
}

func (f Food) Position() mgl32.Vec2 { return f.position }

type Obstacle struct {
	position mgl32.Vec2
}

func (o Obstacle) Position() mgl32.Vec2 { return o.position }

// World is the sole owner of every animal, food item and obstacle.
type World struct {
	animals   []*Animal
	food      []Food
	obstacles []Obstacle
}

func RandomWorld(rng *rand.Rand, cfg Config) *World {
	animals := make([]*Animal, cfg.Animals)
	for i := range animals {
		animals[i] = RandomAnimal(rng, cfg)
	}
	food := make([]Food, cfg.Food)
	for i := range food {
		food[i] = RandomFood(rng)
	}
	return &World{
		animals:   animals,
		food:      food,
		obstacles: boundaryObstacles(cfg.ObstaclesPerEdge, cfg.ObstacleSpacing),
	}
}

// boundaryObstacles lines the bottom, top, left and right edges of the unit
// square, in that order.
func boundaryObstacles(perEdge int, spacing float32) []Obstacle {
	obstacles := make([]Obstacle, 0, perEdge*4)
	for i := 0; i < perEdge; i++ {
		obstacles = append(obstacles, Obstacle{position: mgl32.Vec2{float32(i) * spacing, 0}})
	}
	for i := 0; i < perEdge; i++ {
		obstacles = append(obstacles, Obstacle{position: mgl32.Vec2{float32(i) * spacing, 1}})
	}
	for i := 0; i < perEdge; i++ {
		obstacles = append(obstacles, Obstacle{position: mgl32.Vec2{0, float32(i) * spacing}})
	}
	for i := 0; i < perEdge; i++ {
		obstacles = append(obstacles, Obstacle{position: mgl32.Vec2{1, float32(i) * spacing}})
	}
	return obstacles
}

func (w *World) Animals() []*Animal    { return w.animals }
func (w *World) Food() []Food          { return w.food }
func (w *World) Obstacles() []Obstacle { return w.obstacles }

func (w *World) relocateFood(rng *rand.Rand) {
	for i := range w.food {
		w.food[i].position = randomPoint(rng)
	}
}
