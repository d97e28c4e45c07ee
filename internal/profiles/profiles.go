// Package profiles loads the job and candidate pool the CLI works on.
package profiles

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/spigell/skillmatch/internal/matching"
)

// Pool is a job together with the candidates evaluated against it.
type Pool struct {
	Job        matching.Job         `json:"job" yaml:"job"`
	Candidates []matching.Candidate `json:"candidates" yaml:"candidates" validate:"dive"`
}

var validate = validator.New()

// Load reads a pool from a .yaml, .yml or .json file. Candidates without an
// ID get a random one.
func Load(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file %q: %w", path, err)
	}

	var pool Pool
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&pool); err != nil {
			return nil, fmt.Errorf("parsing profiles file %q: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&pool); err != nil {
			return nil, fmt.Errorf("parsing profiles file %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported profiles file type: %s", ext)
	}

	for i := range pool.Candidates {
		if strings.TrimSpace(pool.Candidates[i].ID) == "" {
			pool.Candidates[i].ID = uuid.NewString()
		}
	}

	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profiles file %q: %w", path, err)
	}

	return &pool, nil
}

// Validate checks skill levels, names and candidate ID uniqueness.
func (p *Pool) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(p.Candidates))
	for _, c := range p.Candidates {
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("duplicate candidate id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return nil
}

// Candidate returns the candidate with the given ID. An empty ID selects the
// first candidate of the pool.
func (p *Pool) Candidate(id string) (matching.Candidate, error) {
	if len(p.Candidates) == 0 {
		return matching.Candidate{}, errors.New("profiles pool has no candidates")
	}

	if id == "" {
		return p.Candidates[0], nil
	}

	for _, c := range p.Candidates {
		if c.ID == id {
			return c, nil
		}
	}

	return matching.Candidate{}, fmt.Errorf("candidate %q not found", id)
}

// Demo is the built-in pool used when no profiles file is given.
func Demo() *Pool {
	return &Pool{
		Job: matching.Job{
			ID:         "j1",
			Title:      "Lead Product Designer",
			Department: "Product",
			Location:   "Milan (Hybrid)",
			RequiredSkills: map[string]int{
				"Design Thinking": 90,
				"UX Research":     85,
				"Collaboration":   90,
				"Leadership":      80,
			},
		},
		Candidates: []matching.Candidate{
			{
				ID:   "rp1",
				Name: "Riccardo Pinna",
				Role: "Product Designer",
				Skills: map[string]int{
					"Design Thinking": 95,
					"UX Research":     90,
					"Prototyping":     85,
					"Collaboration":   98,
					"Problem Solving": 88,
				},
				EmployabilityScore: 94,
				WorkPreference:     "HYBRID",
			},
			{
				ID:   "2",
				Name: "Sara Baccelli",
				Role: "Business Developer",
				Skills: map[string]int{
					"Sales":         95,
					"Communication": 98,
					"Negotiation":   90,
					"CRM":           85,
				},
				EmployabilityScore: 98,
				WorkPreference:     "REMOTE",
			},
		},
	}
}
