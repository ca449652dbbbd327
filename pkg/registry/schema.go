package registry

import "time"

const (
	StatusImplemented = "implemented"
	StatusPlanned     = "planned"
)

type ActivityRegistry struct {
	Version     string     `json:"version"`
	Service     string     `json:"service"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Tags                 []string               `json:"tags"`
}

// TimeoutDuration parses Timeout ("10s", "500ms"); zero when unset or invalid.
func (a Activity) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// HasErrorCode reports whether code is documented for the activity.
func (a Activity) HasErrorCode(code string) bool {
	for _, c := range a.ErrorCodes {
		if c == code {
			return true
		}
	}
	return false
}
