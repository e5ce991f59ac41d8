// Package model defines shared data structures.
package model

import "time"

// Mode names how a run consumed its classification results.
type Mode string

// Run modes.
const (
	ModeCount Mode = "count"
	ModeWrite Mode = "write"
)

// Config defines the settings of one partition run.
type Config struct {
	WordListPath    string
	Alphabet        string
	Encoding        string
	AllowRepetition bool
	Lengths         bool
	SaveDir         string
	Record          bool
}

// Mode returns the consumer selected by the config.
func (c Config) Mode() Mode {
	if c.SaveDir != "" {
		return ModeWrite
	}
	return ModeCount
}

// Run captures a completed partition run.
type Run struct {
	ID              int64
	StartedAt       time.Time
	EndedAt         time.Time
	WordListPath    string
	Alphabet        string
	AllowRepetition bool
	Mode            Mode
	OutputDir       string
	Total           int
	Skipped         int
	DurationMs      int64
}

// BucketCount stores the number of words routed to one letter in a run.
type BucketCount struct {
	Rank   int
	Letter string
	Words  int
}

// HistoryFilter narrows the runs listed from history.
type HistoryFilter struct {
	Alphabet string
	Last     int
}
