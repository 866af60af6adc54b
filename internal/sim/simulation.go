package sim

import (
	"fmt"
	"math/rand"

	"evosim/internal/evo"
)

// Simulation advances a World one step at a time and replaces its animals
// with bred offspring at every generation boundary.
type Simulation struct {
	cfg        Config
	world      *World
	ga         *evo.GeneticAlgorithm[AnimalIndividual]
	age        int
	generation int

	lastContacts  int
	lastFoodEaten int
}

// Randomize builds a simulation with the default configuration.
func Randomize(rng *rand.Rand) *Simulation {
	simulation, err := New(rng, DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("default simulation config: %v", err))
	}
	return simulation
}

func New(rng *rand.Rand, cfg Config) (*Simulation, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ga, err := newGeneticAlgorithm(cfg)
	if err != nil {
		return nil, err
	}
	return &Simulation{
		cfg:   cfg,
		world: RandomWorld(rng, cfg),
		ga:    ga,
	}, nil
}

func newGeneticAlgorithm(cfg Config) (*evo.GeneticAlgorithm[AnimalIndividual], error) {
	selection, err := evo.ResolveSelection(cfg.Selection)
	if err != nil {
		return nil, err
	}
	crossover, err := evo.ResolveCrossover(cfg.Crossover)
	if err != nil {
		return nil, err
	}
	mutation, err := evo.ResolveMutation(cfg.Mutation, evo.MutationParams{
		Chance:      cfg.MutationChance,
		Coefficient: cfg.MutationCoefficient,
	})
	if err != nil {
		return nil, err
	}
	return evo.NewGeneticAlgorithm(NewAnimalIndividual, selection, crossover, mutation)
}

func (s *Simulation) World() *World   { return s.world }
func (s *Simulation) Config() Config  { return s.cfg }
func (s *Simulation) Age() int        { return s.age }
func (s *Simulation) Generation() int { return s.generation }

// LastObstacleContacts reports the obstacle contacts summed over the
// population of the most recently evolved generation.
func (s *Simulation) LastObstacleContacts() int { return s.lastContacts }

// LastFoodEaten reports the food items eaten by the most recently evolved
// generation.
func (s *Simulation) LastFoodEaten() int { return s.lastFoodEaten }

// StepForward runs motion, collision and cognition for every animal. When the
// step crosses the generation length the population is evolved and the
// statistics of the finished generation are returned; otherwise it returns nil.
func (s *Simulation) StepForward(rng *rand.Rand) (*evo.Statistics, error) {
	s.processMotion()
	s.processCollision(rng)
	s.processBrains()

	s.age++
	if s.age <= s.cfg.GenerationLength {
		return nil, nil
	}

	statistics, err := s.Evolve(rng)
	if err != nil {
		return nil, err
	}
	return &statistics, nil
}

func (s *Simulation) processMotion() {
	for _, animal := range s.world.animals {
		animal.move()
	}
}

func (s *Simulation) processCollision(rng *rand.Rand) {
	for _, animal := range s.world.animals {
		for i := range s.world.food {
			if distance(animal.position, s.world.food[i].position) <= s.cfg.CaptureRadius {
				s.world.food[i].position = randomPoint(rng)
				animal.score++
			}
		}
		for _, obstacle := range s.world.obstacles {
			if distance(animal.position, obstacle.position) <= s.cfg.CaptureRadius {
				animal.contacts++
			}
		}
	}
}

func (s *Simulation) processBrains() {
	for _, animal := range s.world.animals {
		animal.think(s.cfg, s.world.food, s.world.obstacles)
	}
}

// Evolve breeds a new population from the current animals' brains and scores,
// scatters the food again and returns the finished generation's statistics.
func (s *Simulation) Evolve(rng *rand.Rand) (evo.Statistics, error) {
	contacts, eaten := 0, 0
	current := make([]AnimalIndividual, len(s.world.animals))
	for i, animal := range s.world.animals {
		current[i] = IndividualFromAnimal(animal)
		contacts += animal.contacts
		eaten += animal.score
	}

	evolved, statistics := s.ga.Evolve(rng, current)

	animals := make([]*Animal, len(evolved))
	for i, individual := range evolved {
		animal, err := individual.ToAnimal(rng, s.cfg)
		if err != nil {
			return evo.Statistics{}, fmt.Errorf("offspring %d: %w", i, err)
		}
		animals[i] = animal
	}
	s.world.animals = animals
	s.world.relocateFood(rng)
	s.age = 0
	s.generation++
	s.lastContacts = contacts
	s.lastFoodEaten = eaten

	return statistics, nil
}
