package model

import "testing"

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{id: "run-1", valid: true},
		{id: "3f1c2a9e-6a0b-4c1e-9f4d-0e5b7a1c2d3e", valid: true},
		{id: "v1.2", valid: true},
		{id: "", valid: false},
		{id: ".", valid: false},
		{id: "..", valid: false},
		{id: "../escape", valid: false},
		{id: "a/b", valid: false},
		{id: `a\b`, valid: false},
		{id: "run..1", valid: false},
	}
	for _, tc := range tests {
		err := ValidateRunID(tc.id)
		if tc.valid && err != nil {
			t.Fatalf("id %q: unexpected error %v", tc.id, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("id %q: expected error", tc.id)
		}
	}
}
