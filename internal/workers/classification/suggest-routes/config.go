package suggestroutes

import (
	"time"

	"traveler-classifier/internal/suggestions"
)

type Config struct {
	Timeout  time.Duration
	Baseline suggestions.Baseline
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		Baseline: suggestions.DefaultBaseline(),
	}
}
