package classifytraveler

import "time"

type Config struct {
	Timeout time.Duration
	// RecordSessions stores the result under the job's sessionId when set.
	RecordSessions bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        10 * time.Second,
		RecordSessions: true,
	}
}
