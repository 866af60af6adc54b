package storage

import (
	"errors"
	"testing"

	"evosim/internal/model"
)

func TestGenerationCodecRoundTrip(t *testing.T) {
	input := model.GenerationRecord{
		VersionedRecord:  CurrentVersion(),
		RunID:            "run-1",
		Generation:       4,
		MinFitness:       1,
		MaxFitness:       9,
		AvgFitness:       4.25,
		ObstacleContacts: 12,
	}
	data, err := EncodeGeneration(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeGeneration(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if output != input {
		t.Fatalf("round trip mismatch: got=%+v want=%+v", output, input)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	data, err := EncodeRun(model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: 99, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestNewStore(t *testing.T) {
	if _, err := NewStore("memory", ""); err != nil {
		t.Fatalf("memory store: %v", err)
	}
	if _, err := NewStore("sqlite", "evosim.db"); err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	store, err := NewStore("", "evosim.db")
	if err != nil {
		t.Fatalf("default store: %v", err)
	}
	if _, ok := store.(*SQLiteStore); !ok {
		t.Fatalf("default store should be sqlite, got %T", store)
	}
	if _, err := NewStore("postgres", ""); err == nil {
		t.Fatal("expected unsupported backend error")
	}
}
