package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evosim/internal/model"
)

const namespace = "evosim"

// Metrics exposes simulation progress as prometheus collectors. Each Metrics
// owns its registry so several runs in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	steps            prometheus.Counter
	generations      prometheus.Counter
	foodEaten        prometheus.Counter
	obstacleContacts prometheus.Counter
	fitness          *prometheus.GaugeVec
	lastGeneration   prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Simulation steps executed.",
		}),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generations evolved.",
		}),
		foodEaten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "food_eaten_total",
			Help:      "Food items eaten across all finished generations.",
		}),
		obstacleContacts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "obstacle_contacts_total",
			Help:      "Animal-obstacle contacts across all finished generations.",
		}),
		fitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation_fitness",
			Help:      "Fitness of the most recently finished generation.",
		}, []string{"stat"}),
		lastGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation",
			Help:      "Index of the most recently finished generation.",
		}),
	}
	m.registry.MustRegister(m.steps, m.generations, m.foodEaten, m.obstacleContacts, m.fitness, m.lastGeneration)
	return m
}

func (m *Metrics) ObserveStep() {
	m.steps.Inc()
}

// ObserveGeneration records a finished generation.
func (m *Metrics) ObserveGeneration(record model.GenerationRecord) {
	m.generations.Inc()
	m.lastGeneration.Set(float64(record.Generation))
	m.fitness.WithLabelValues("min").Set(float64(record.MinFitness))
	m.fitness.WithLabelValues("avg").Set(float64(record.AvgFitness))
	m.fitness.WithLabelValues("max").Set(float64(record.MaxFitness))
	if record.FoodEaten > 0 {
		m.foodEaten.Add(float64(record.FoodEaten))
	}
	if record.ObstacleContacts > 0 {
		m.obstacleContacts.Add(float64(record.ObstacleContacts))
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
