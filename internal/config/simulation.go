package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/me/scoop/pkg/model"
	"gopkg.in/yaml.v3"
)

// Simulation is the on-disk description of one run.
//
// Jobs may be given either as a list of {name, duration} entries or as the
// parallel flavors/times lists the interactive prompt collects, not both.
type Simulation struct {
	Mode    string          `yaml:"mode"`
	Quantum int             `yaml:"quantum"`
	Pace    time.Duration   `yaml:"pace"`
	Jobs    []model.JobSpec `yaml:"jobs"`
	Flavors []string        `yaml:"flavors"`
	Times   []string        `yaml:"times"`
}

// Plan is a validated simulation ready to hand to the engine.
type Plan struct {
	Jobs    []model.JobSpec
	Mode    model.Mode
	Quantum int
	Pace    time.Duration
}

// LoadSimulation reads a YAML simulation file from path.
func LoadSimulation(path string) (*Simulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading simulation file: %w", err)
	}
	return ParseSimulation(data)
}

// ParseSimulation decodes a YAML simulation document. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func ParseSimulation(data []byte) (*Simulation, error) {
	var sim Simulation
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sim); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing simulation file: %w", err)
	}
	return &sim, nil
}

// JobSpecs returns the simulation's jobs in arrival order.
func (s *Simulation) JobSpecs() ([]model.JobSpec, error) {
	if len(s.Flavors) > 0 || len(s.Times) > 0 {
		if len(s.Jobs) > 0 {
			return nil, &model.ConfigError{
				Kind:    model.ErrMismatchedInput,
				Field:   "jobs",
				Message: "use either jobs or flavors/times, not both",
			}
		}
		durations, err := ParseDurations(s.Times)
		if err != nil {
			return nil, err
		}
		return ZipJobs(s.Flavors, durations)
	}
	return s.Jobs, nil
}

// Plan validates the simulation and resolves its mode.
func (s *Simulation) Plan() (*Plan, error) {
	jobs, err := s.JobSpecs()
	if err != nil {
		return nil, err
	}
	mode, err := model.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	p := &Plan{Jobs: jobs, Mode: mode, Quantum: s.Quantum, Pace: s.Pace}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks mode-dependent settings. Durations are checked when the
// engine is built.
func (p *Plan) Validate() error {
	if !p.Mode.IsValid() {
		return &model.ConfigError{Kind: model.ErrInvalidMode, Field: "mode", Value: p.Mode.String()}
	}
	if p.Mode.NeedsQuantum() && p.Quantum <= 0 {
		return &model.ConfigError{
			Kind:    model.ErrInvalidQuantum,
			Field:   "quantum",
			Value:   strconv.Itoa(p.Quantum),
			Message: "must be positive",
		}
	}
	if p.Pace < 0 {
		return fmt.Errorf("pace %s must not be negative", p.Pace)
	}
	return nil
}

// SplitList splits a comma-separated list and trims each element. An empty
// input yields an empty list.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseDurations converts each field to an integer duration.
func ParseDurations(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, &model.ConfigError{
				Kind:    model.ErrInvalidDuration,
				Field:   fmt.Sprintf("times[%d]", i),
				Value:   f,
				Message: "not an integer",
			}
		}
		out[i] = n
	}
	return out, nil
}

// ZipJobs pairs flavor names with durations position by position.
func ZipJobs(flavors []string, durations []int) ([]model.JobSpec, error) {
	if len(flavors) != len(durations) {
		return nil, &model.ConfigError{
			Kind:    model.ErrMismatchedInput,
			Field:   "times",
			Message: fmt.Sprintf("%d flavors but %d production times", len(flavors), len(durations)),
		}
	}
	jobs := make([]model.JobSpec, len(flavors))
	for i, name := range flavors {
		jobs[i] = model.JobSpec{Name: name, Duration: durations[i]}
	}
	return jobs, nil
}
