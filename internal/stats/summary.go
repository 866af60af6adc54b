package stats

import (
	"fmt"

	"evosim/internal/model"
)

// Summary condenses a run's generation history.
type Summary struct {
	Generations    int     `json:"generations"`
	InitialAvg     float32 `json:"initial_avg"`
	FinalAvg       float32 `json:"final_avg"`
	BestMax        float32 `json:"best_max"`
	BestGeneration int     `json:"best_generation"`
	Improvement    float32 `json:"improvement"`
}

func Summarize(records []model.GenerationRecord) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, fmt.Errorf("no generations recorded")
	}

	summary := Summary{
		Generations:    len(records),
		InitialAvg:     records[0].AvgFitness,
		FinalAvg:       records[len(records)-1].AvgFitness,
		BestMax:        records[0].MaxFitness,
		BestGeneration: records[0].Generation,
	}
	for _, record := range records[1:] {
		if record.MaxFitness > summary.BestMax {
			summary.BestMax = record.MaxFitness
			summary.BestGeneration = record.Generation
		}
	}
	summary.Improvement = summary.FinalAvg - summary.InitialAvg
	return summary, nil
}
