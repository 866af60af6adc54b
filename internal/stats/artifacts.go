package stats

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"evosim/internal/model"
)

const (
	runFile         = "run.json"
	generationsFile = "generations.csv"
)

var generationsHeader = []string{"generation", "min_fitness", "avg_fitness", "max_fitness", "obstacle_contacts", "food_eaten"}

type RunArtifacts struct {
	Run         model.RunRecord          `json:"run"`
	Generations []model.GenerationRecord `json:"generations"`
}

// WriteRunArtifacts writes run.json and generations.csv under baseDir/<run id>
// and returns that directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if err := model.ValidateRunID(artifacts.Run.ID); err != nil {
		return "", err
	}

	runDir := filepath.Join(baseDir, artifacts.Run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, runFile), artifacts.Run); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, generationsFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteGenerationsCSV(f, artifacts.Generations); err != nil {
		return "", err
	}
	return runDir, f.Close()
}

func ReadRunArtifacts(runDir string) (RunArtifacts, error) {
	data, err := os.ReadFile(filepath.Join(runDir, runFile))
	if err != nil {
		return RunArtifacts{}, err
	}
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return RunArtifacts{}, fmt.Errorf("decode %s: %w", runFile, err)
	}

	f, err := os.Open(filepath.Join(runDir, generationsFile))
	if err != nil {
		return RunArtifacts{}, err
	}
	defer f.Close()

	generations, err := ReadGenerationsCSV(f, run.ID)
	if err != nil {
		return RunArtifacts{}, fmt.Errorf("decode %s: %w", generationsFile, err)
	}
	return RunArtifacts{Run: run, Generations: generations}, nil
}

func WriteGenerationsCSV(w io.Writer, records []model.GenerationRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(generationsHeader); err != nil {
		return err
	}
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Generation),
			formatFitness(record.MinFitness),
			formatFitness(record.AvgFitness),
			formatFitness(record.MaxFitness),
			strconv.Itoa(record.ObstacleContacts),
			strconv.Itoa(record.FoodEaten),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadGenerationsCSV(r io.Reader, runID string) ([]model.GenerationRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(generationsHeader)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header")
		}
		return nil, err
	}
	for i, column := range generationsHeader {
		if header[i] != column {
			return nil, fmt.Errorf("unexpected column %d: %q", i, header[i])
		}
	}

	var records []model.GenerationRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		record, err := parseGenerationRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		record.RunID = runID
		records = append(records, record)
	}
	return records, nil
}

func parseGenerationRow(row []string) (model.GenerationRecord, error) {
	generation, err := strconv.Atoi(row[0])
	if err != nil {
		return model.GenerationRecord{}, fmt.Errorf("generation: %w", err)
	}
	fitness := make([]float32, 3)
	for i := range fitness {
		v, err := strconv.ParseFloat(row[i+1], 32)
		if err != nil {
			return model.GenerationRecord{}, fmt.Errorf("%s: %w", generationsHeader[i+1], err)
		}
		fitness[i] = float32(v)
	}
	contacts, err := strconv.Atoi(row[4])
	if err != nil {
		return model.GenerationRecord{}, fmt.Errorf("obstacle_contacts: %w", err)
	}
	eaten, err := strconv.Atoi(row[5])
	if err != nil {
		return model.GenerationRecord{}, fmt.Errorf("food_eaten: %w", err)
	}
	return model.GenerationRecord{
		Generation:       generation,
		MinFitness:       fitness[0],
		AvgFitness:       fitness[1],
		MaxFitness:       fitness[2],
		ObstacleContacts: contacts,
		FoodEaten:        eaten,
	}, nil
}

func formatFitness(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
