package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Save writes the registry as indented JSON, creating the directory if needed.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Update sets one editable field of the activity with the given id and bumps
// LastUpdated.
func (r *ActivityRegistry) Update(id, field, value string) error {
	activity := r.byID(id)
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		if value != StatusImplemented && value != StatusPlanned {
			return fmt.Errorf("status must be %q or %q", StatusImplemented, StatusPlanned)
		}
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid retries value %q", value)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	r.touch()
	return nil
}

// SetInputProperty replaces one property of the activity's input schema.
func (r *ActivityRegistry) SetInputProperty(taskType, property string, schema map[string]interface{}) error {
	activity, ok := r.Find(taskType)
	if !ok {
		return fmt.Errorf("no activity for task type %s", taskType)
	}
	if activity.InputSchema == nil {
		activity.InputSchema = map[string]interface{}{"type": "object"}
	}
	props, _ := activity.InputSchema["properties"].(map[string]interface{})
	if props == nil {
		props = map[string]interface{}{}
	}
	props[property] = schema
	activity.InputSchema["properties"] = props
	r.touch()
	return nil
}

// Check lists every problem in the registry. errorCodes, when non-nil, is the
// set of BPMN error codes workers can actually throw.
func (r *ActivityRegistry) Check(errorCodes map[string]bool) []error {
	var problems []error
	if len(r.Activities) == 0 {
		problems = append(problems, fmt.Errorf("registry contains no activities"))
	}

	ids := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.ID == "" {
			problems = append(problems, fmt.Errorf("activity for %s missing required field: id", a.TaskType))
			continue
		}
		if ids[a.ID] {
			problems = append(problems, fmt.Errorf("duplicate activity ID: %s", a.ID))
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			problems = append(problems, fmt.Errorf("activity %s missing required field: displayName", a.ID))
		}
		if a.Category == "" {
			problems = append(problems, fmt.Errorf("activity %s missing required field: category", a.ID))
		}
		if a.ImplementationStatus != StatusImplemented && a.ImplementationStatus != StatusPlanned {
			problems = append(problems, fmt.Errorf("activity %s has unknown status %q", a.ID, a.ImplementationStatus))
		}
		if a.Timeout != "" && a.TimeoutDuration() <= 0 {
			problems = append(problems, fmt.Errorf("activity %s has invalid timeout %q", a.ID, a.Timeout))
		}
		if errorCodes != nil {
			for _, code := range a.ErrorCodes {
				if !errorCodes[code] {
					problems = append(problems, fmt.Errorf("activity %s documents unknown error code %s", a.ID, code))
				}
			}
		}
	}
	return problems
}

func (r *ActivityRegistry) byID(id string) *Activity {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i]
		}
	}
	return nil
}

func (r *ActivityRegistry) touch() {
	r.LastUpdated = time.Now().UTC().Format("2006-01-02")
}

// SortedCodes is a helper for stable error output.
func SortedCodes(codes map[string]bool) []string {
	out := make([]string, 0, len(codes))
	for c := range codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
