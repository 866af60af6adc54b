package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord describes one simulation run and the parameters it was started
// with.
type RunRecord struct {
	VersionedRecord
	ID                  string    `json:"id"`
	Seed                int64     `json:"seed"`
	Animals             int       `json:"animals"`
	Food                int       `json:"food"`
	GenerationLength    int       `json:"generation_length"`
	VisionCells         int       `json:"vision_cells"`
	MutationChance      float32   `json:"mutation_chance"`
	MutationCoefficient float32   `json:"mutation_coefficient"`
	Generations         int       `json:"generations"`
	Completed           int       `json:"completed"`
	Status              RunStatus `json:"status"`
	Error               string    `json:"error,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// GenerationRecord is the fitness snapshot taken at one generation boundary.
type GenerationRecord struct {
	VersionedRecord
	RunID            string  `json:"run_id"`
	Generation       int     `json:"generation"`
	MinFitness       float32 `json:"min_fitness"`
	MaxFitness       float32 `json:"max_fitness"`
	AvgFitness       float32 `json:"avg_fitness"`
	ObstacleContacts int     `json:"obstacle_contacts"`
	FoodEaten        int     `json:"food_eaten"`
}
