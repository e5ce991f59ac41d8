package config

import (
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/kathe/internal/alphabet"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Partition PartitionConfig           `toml:"partition"`
	Alphabets map[string]AlphabetConfig `toml:"alphabets"`
}

// PartitionConfig maps defaults for the root command's flags.
type PartitionConfig struct {
	Alphabet        *string `toml:"alphabet"`
	Encoding        *string `toml:"encoding"`
	AllowRepetition *bool   `toml:"allow-repetition"`
	Lengths         *bool   `toml:"lengths"`
	Save            *string `toml:"save"`
	Record          *bool   `toml:"record"`
}

// AlphabetConfig defines a user alphabet. Keys of Normalize and Durations
// must be single characters.
type AlphabetConfig struct {
	Letters   string            `toml:"letters"`
	Normalize map[string]string `toml:"normalize"`
	Durations map[string]int    `toml:"durations"`
	FoldMarks bool              `toml:"fold-marks"`
	Sorted    bool              `toml:"sorted"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Registry returns the builtin alphabets overlaid with the ones defined in
// cfg. A config alphabet replaces a builtin of the same name.
func Registry(cfg FileConfig) (*alphabet.Registry, error) {
	reg := alphabet.Builtins()
	names := make([]string, 0, len(cfg.Alphabets))
	for name := range cfg.Alphabets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a, err := buildAlphabet(name, cfg.Alphabets[name])
		if err != nil {
			return nil, err
		}
		reg.Add(a)
	}
	return reg, nil
}

func buildAlphabet(name string, ac AlphabetConfig) (*alphabet.Alphabet, error) {
	var opts []alphabet.Option
	if len(ac.Normalize) > 0 {
		table := make(map[rune]rune, len(ac.Normalize))
		for from, to := range ac.Normalize {
			f, err := singleRune(name, "normalize", from)
			if err != nil {
				return nil, err
			}
			t, err := singleRune(name, "normalize", to)
			if err != nil {
				return nil, err
			}
			table[f] = t
		}
		opts = append(opts, alphabet.WithNormalization(table))
	}
	if len(ac.Durations) > 0 {
		table := make(map[rune]int, len(ac.Durations))
		for letter, secs := range ac.Durations {
			r, err := singleRune(name, "durations", letter)
			if err != nil {
				return nil, err
			}
			if secs < 0 {
				return nil, fmt.Errorf("alphabet %q: negative duration for %q", name, letter)
			}
			table[r] = secs
		}
		opts = append(opts, alphabet.WithDurations(table))
	}
	if ac.FoldMarks {
		opts = append(opts, alphabet.WithMarkFolding())
	}
	if ac.Sorted {
		opts = append(opts, alphabet.RequireSorted())
	}
	a, err := alphabet.New(name, ac.Letters, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid alphabet in config: %w", err)
	}
	return a, nil
}

func singleRune(name, table, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("alphabet %q: %s entry %q must be a single character", name, table, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
