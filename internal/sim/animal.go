package sim

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"evosim/internal/evo"
)

type Animal struct {
	position    mgl32.Vec2
	heading     float32
	speed       float32
	vision      Vision
	brain       *Brain
	score       int
	contacts    int
	visionInput []float32
}

func RandomAnimal(rng *rand.Rand, cfg Config) *Animal {
	brain := RandomBrain(rng, cfg.Vision)
	return &Animal{
		position:    randomPoint(rng),
		heading:     randomHeading(rng),
		speed:       cfg.InitialSpeed,
		vision:      cfg.Vision,
		brain:       brain,
		visionInput: make([]float32, cfg.Vision.Cells),
	}
}

// AnimalFromChromosome places a freshly bred animal at a random spot with a
// random heading.
func AnimalFromChromosome(rng *rand.Rand, chromosome evo.Chromosome, cfg Config) (*Animal, error) {
	brain, err := BrainFromChromosome(chromosome, cfg.Vision)
	if err != nil {
		return nil, err
	}
	return &Animal{
		position:    randomPoint(rng),
		heading:     randomHeading(rng),
		speed:       cfg.OffspringSpeed,
		vision:      cfg.Vision,
		brain:       brain,
		visionInput: make([]float32, cfg.Vision.Cells),
	}, nil
}

func (a *Animal) Position() mgl32.Vec2 { return a.position }
func (a *Animal) Heading() float32     { return a.heading }
func (a *Animal) Speed() float32       { return a.speed }
func (a *Animal) Vision() Vision       { return a.vision }
func (a *Animal) Score() int           { return a.score }

// ObstacleContacts counts obstacle touches this generation. Contacts have no
// effect on motion or score.
func (a *Animal) ObstacleContacts() int { return a.contacts }

// VisionInput is the reading fed to the brain on the last cognition pass.
func (a *Animal) VisionInput() []float32 {
	out := make([]float32, len(a.visionInput))
	copy(out, a.visionInput)
	return out
}

func (a *Animal) Chromosome() evo.Chromosome {
	return a.brain.Chromosome()
}

func (a *Animal) move() {
	step := mgl32.Rotate2D(a.heading).Mul2x1(mgl32.Vec2{a.speed, 0})
	a.position = wrapPoint(a.position.Add(step))
}

func (a *Animal) think(cfg Config, food []Food, obstacles []Obstacle) {
	reading := a.vision.Process(a.position, a.heading, food, obstacles)
	response := a.brain.Propagate(reading)

	speed := clamp(response[0], -cfg.SpeedAccel, cfg.SpeedAccel)
	rotation := clamp(response[1], -cfg.RotationAccel, cfg.RotationAccel)

	a.speed = clamp(a.speed+speed, cfg.SpeedMin, cfg.SpeedMax)
	a.heading += rotation
	a.visionInput = reading
}

// AnimalIndividual is the genetic view of an animal: its brain weights and
// the food it collected.
type AnimalIndividual struct {
	fitness    float32
	chromosome evo.Chromosome
}

func NewAnimalIndividual(chromosome evo.Chromosome) AnimalIndividual {
	return AnimalIndividual{chromosome: chromosome}
}

func IndividualFromAnimal(a *Animal) AnimalIndividual {
	return AnimalIndividual{
		fitness:    float32(a.score),
		chromosome: a.Chromosome(),
	}
}

func (i AnimalIndividual) Chromosome() evo.Chromosome { return i.chromosome }
func (i AnimalIndividual) Fitness() float32           { return i.fitness }

func (i AnimalIndividual) ToAnimal(rng *rand.Rand, cfg Config) (*Animal, error) {
	return AnimalFromChromosome(rng, i.chromosome, cfg)
}
