package xtream

import (
	"encoding/json"
	"testing"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"number", `42`, 42},
		{"negative number", `-7`, -7},
		{"numeric string", `"42"`, 42},
		{"empty string", `""`, 0},
		{"junk string", `"abc"`, 0},
		{"null", `null`, 0},
		{"bool", `true`, 0},
		{"float", `3.9`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Int() != tt.want {
				t.Errorf("FlexInt(%s) = %d, want %d", tt.input, f.Int(), tt.want)
			}
		})
	}
}

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"number", `4.5`, 4.5},
		{"integer number", `4`, 4},
		{"numeric string", `"4.5"`, 4.5},
		{"empty string", `""`, 0},
		{"junk string", `"n/a"`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Float() != tt.want {
				t.Errorf("FlexFloat(%s) = %v, want %v", tt.input, f.Float(), tt.want)
			}
		})
	}
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string", `"hello"`, "hello"},
		{"integer number", `42`, "42"},
		{"float number", `4.5`, "4.5"},
		{"empty string", `""`, ""},
		{"null", `null`, ""},
		{"bool", `true`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.String() != tt.want {
				t.Errorf("FlexString(%s) = %q, want %q", tt.input, f.String(), tt.want)
			}
		})
	}
}

func TestFlexTypes_InStructPayload(t *testing.T) {
	// Servers disagree on field types per deployment; one payload can mix
	// quoted and bare values for the same logical schema.
	body := `{
		"stream_id": "314",
		"name": "Mixed",
		"category_id": 9,
		"rating": "3.5",
		"added": "not-a-timestamp"
	}`

	var s Stream
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.StreamID.Int() != 314 {
		t.Errorf("expected stream_id 314, got %d", s.StreamID.Int())
	}
	if s.CategoryID.String() != "9" {
		t.Errorf("expected category_id \"9\", got %q", s.CategoryID.String())
	}
	if s.Rating.Float() != 3.5 {
		t.Errorf("expected rating 3.5, got %v", s.Rating.Float())
	}
	if s.Added.Int() != 0 {
		t.Errorf("expected unparseable added to degrade to 0, got %d", s.Added.Int())
	}
}
