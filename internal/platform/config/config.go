package config

import (
	"os"
	"strings"
)

// Config captures process-level configuration.
type Config struct {
	Addr        string
	DatabaseURL string

	KafkaBrokers []string
	EventsTopic  string
	EventsSource string
}

// FromEnv builds a Config from environment variables so main stays lean.
// An empty DATABASE_URL selects the in-memory stores; empty KAFKA_BROKERS
// selects the no-op notifier.
func FromEnv() Config {
	addr := os.Getenv("ELECTORATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	topic := os.Getenv("EVENTS_TOPIC")
	if topic == "" {
		topic = "electorate.events"
	}
	source := os.Getenv("EVENTS_SOURCE")
	if source == "" {
		source = "electorate"
	}

	return Config{
		Addr:         addr,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		KafkaBrokers: brokers,
		EventsTopic:  topic,
		EventsSource: source,
	}
}
