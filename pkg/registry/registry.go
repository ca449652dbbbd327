package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read activity registry: %w", err)
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry %s: %w", path, err)
	}
	if err := reg.validate(); err != nil {
		return nil, fmt.Errorf("activity registry %s: %w", path, err)
	}
	return &reg, nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Implemented lists the task types whose implementation status is "implemented".
func (r *ActivityRegistry) Implemented() []string {
	var out []string
	for _, a := range r.Activities {
		if a.ImplementationStatus == StatusImplemented {
			out = append(out, a.TaskType)
		}
	}
	return out
}

func (r *ActivityRegistry) validate() error {
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %q has no taskType", a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("duplicate taskType %q", a.TaskType)
		}
		seen[a.TaskType] = true
	}
	return nil
}
