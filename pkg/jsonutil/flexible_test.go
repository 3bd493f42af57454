package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  string
	}{
		{name: "string value", input: json.RawMessage(`"hello"`), want: "hello"},
		{name: "integer value", input: json.RawMessage(`42`), want: "42"},
		{name: "float value", input: json.RawMessage(`3.14`), want: "3.14"},
		{name: "boolean true", input: json.RawMessage(`true`), want: "true"},
		{name: "null", input: json.RawMessage(`null`), want: ""},
		{name: "empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlexibleStringValue(tt.input); got != tt.want {
				t.Errorf("FlexibleStringValue(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFlexibleFloatValue(t *testing.T) {
	tests := []struct {
		name    string
		input   json.RawMessage
		want    float64
		wantErr bool
	}{
		{name: "number", input: json.RawMessage(`0.85`), want: 0.85},
		{name: "integer", input: json.RawMessage(`1`), want: 1},
		{name: "quoted number", input: json.RawMessage(`"0.5"`), want: 0.5},
		{name: "quoted with whitespace", input: json.RawMessage(`" 0.9 "`), want: 0.9},
		{name: "non-numeric string", input: json.RawMessage(`"high"`), wantErr: true},
		{name: "null", input: json.RawMessage(`null`), wantErr: true},
		{name: "object", input: json.RawMessage(`{}`), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlexibleFloatValue(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FlexibleFloatValue(%s) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FlexibleFloatValue(%s) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("FlexibleFloatValue(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
