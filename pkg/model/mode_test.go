package model

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"fcfs", ModeFCFS},
		{"FCFS", ModeFCFS},
		{" fcfs ", ModeFCFS},
		{"First-Come, First-Served", ModeFCFS},
		{"2", ModeFCFS},
		{"rr", ModeRoundRobin},
		{"RR", ModeRoundRobin},
		{"round-robin", ModeRoundRobin},
		{"Round Robin", ModeRoundRobin},
		{"ROUND_ROBIN", ModeRoundRobin},
		{"1", ModeRoundRobin},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if err != nil {
			t.Errorf("ParseMode(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseMode_Invalid(t *testing.T) {
	for _, input := range []string{"", "3", "sjf", "priority", "round"} {
		_, err := ParseMode(input)
		if !errors.Is(err, ErrInvalidMode) {
			t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", input, err)
		}
	}
}

func TestMode_Helpers(t *testing.T) {
	if ModeRoundRobin.DisplayName() != "Round Robin" {
		t.Errorf("DisplayName = %q", ModeRoundRobin.DisplayName())
	}
	if !ModeRoundRobin.NeedsQuantum() || ModeFCFS.NeedsQuantum() {
		t.Error("only round robin should need a quantum")
	}
	if Mode("SJF").IsValid() {
		t.Error("SJF should not be valid")
	}
}
