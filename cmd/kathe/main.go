// Package main provides the CLI entrypoint for kathe.
package main

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/kathe/internal/alphabet"
	"github.com/verte-zerg/kathe/internal/classify"
	"github.com/verte-zerg/kathe/internal/config"
	"github.com/verte-zerg/kathe/internal/history"
	"github.com/verte-zerg/kathe/internal/historyui"
	"github.com/verte-zerg/kathe/internal/logger"
	"github.com/verte-zerg/kathe/internal/model"
	"github.com/verte-zerg/kathe/internal/partition"
	"github.com/verte-zerg/kathe/internal/store"
	"github.com/verte-zerg/kathe/internal/wordlist"
)

var (
	partitionAlphabet string
	partitionSave     string
	partitionLengths  bool
	partitionRepeat   bool
	partitionEncoding string
	partitionRecord   bool
	verbose           bool

	historyAlphabet string
	historyLast     int
	historyRun      int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kathe [flags] WORDLIST",
		Short: "Partition a word list by the highest alphabet letter each word uses",
		Long: `Partitions a word list into lists of words which can be spelled using only
progressively-larger leading subsets of the alphabet.

By default, the size of each partition is printed, but nothing is saved.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPartitionCmd,
	}

	rootCmd.Flags().StringVarP(&partitionAlphabet, "alphabet", "a", alphabet.DefaultName, "alphabet to use")
	rootCmd.Flags().StringVarP(&partitionSave, "save", "s", "", "save partitioned word lists to `DIRECTORY`")
	rootCmd.Flags().BoolVarP(&partitionLengths, "lengths", "l", false, "add set lengths to saved word lists (needs --save)")
	rootCmd.Flags().BoolVarP(&partitionRepeat, "allow-repetition", "r", false, "allow a letter to be used more than once in a word")
	rootCmd.Flags().StringVarP(&partitionEncoding, "encoding", "e", wordlist.DefaultEncoding, "encoding of WORDLIST")
	rootCmd.Flags().BoolVar(&partitionRecord, "record", false, "record the run in the history database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newAlphabetsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newBrowseCmd())

	return rootCmd
}

func runPartitionCmd(cmd *cobra.Command, args []string) error {
	logs := logger.New(verbose)

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "alphabet", &partitionAlphabet, fileCfg.Partition.Alphabet)
	applyStringConfig(cmd, "encoding", &partitionEncoding, fileCfg.Partition.Encoding)
	applyStringConfig(cmd, "save", &partitionSave, fileCfg.Partition.Save)
	applyBoolConfig(cmd, "allow-repetition", &partitionRepeat, fileCfg.Partition.AllowRepetition)
	applyBoolConfig(cmd, "lengths", &partitionLengths, fileCfg.Partition.Lengths)
	applyBoolConfig(cmd, "record", &partitionRecord, fileCfg.Partition.Record)

	cfg := model.Config{
		WordListPath:    args[0],
		Alphabet:        partitionAlphabet,
		Encoding:        partitionEncoding,
		AllowRepetition: partitionRepeat,
		Lengths:         partitionLengths,
		SaveDir:         partitionSave,
		Record:          partitionRecord,
	}

	reg, err := config.Registry(fileCfg)
	if err != nil {
		return err
	}
	a, err := validateConfig(&cfg, reg, logs)
	if err != nil {
		return err
	}
	return runPartition(cmd.Context(), cfg, a, cmd.OutOrStdout(), logs)
}

// validateConfig rejects settings that would fail before any input is read
// and drops options that have no effect.
func validateConfig(cfg *model.Config, reg *alphabet.Registry, logs *log.Logger) (*alphabet.Alphabet, error) {
	a, err := reg.Lookup(cfg.Alphabet)
	if err != nil {
		return nil, err
	}
	if _, err := wordlist.LookupEncoding(cfg.Encoding); err != nil {
		return nil, err
	}
	if cfg.Lengths && cfg.SaveDir == "" {
		logs.Warn("--lengths has no effect without --save")
		cfg.Lengths = false
	}
	if cfg.Lengths && !a.HasDurations() {
		logs.Warn("alphabet has no set lengths; --lengths ignored", "alphabet", a.Name())
		cfg.Lengths = false
	}
	return a, nil
}

func runPartition(ctx context.Context, cfg model.Config, a *alphabet.Alphabet, stdout io.Writer, logs *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	src, err := wordlist.Open(cfg.WordListPath, cfg.Encoding)
	if err != nil {
		return fmt.Errorf("failed to open word list: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logs.Debug("failed to close word list", "err", cerr)
		}
	}()

	logs.Debug("partitioning", "wordlist", cfg.WordListPath, "alphabet", a.Name(), "mode", cfg.Mode())
	results := classify.New(a, cfg.AllowRepetition).Scan(src.Words())

	var tally partition.Tally
	switch cfg.Mode() {
	case model.ModeWrite:
		tally, err = writePartitions(results, a, cfg, src)
		if err != nil {
			return err
		}
		logs.Info("wrote partitions", "dir", cfg.SaveDir, "words", tally.Total(), "skipped", tally.Skipped)
	default:
		tally = partition.Count(results, a)
		if err := src.Err(); err != nil {
			return fmt.Errorf("failed to read word list: %w", err)
		}
		if err := partition.WriteReport(stdout, tally, shouldUseColor(stdout)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if cfg.Record {
		if err := recordRun(ctx, cfg, tally, started); err != nil {
			logs.Error("run not recorded", "err", err)
		}
	}
	return nil
}

// writePartitions stages every bucket file and only moves them into place
// once the word list has been read without error.
func writePartitions(results iter.Seq[classify.Result], a *alphabet.Alphabet, cfg model.Config, src *wordlist.Source) (partition.Tally, error) {
	w, err := partition.NewWriter(a, partition.WriteOptions{Dir: cfg.SaveDir, Durations: cfg.Lengths})
	if err != nil {
		return partition.Tally{}, err
	}
	defer w.Abort()

	for res := range results {
		if err := w.Add(res); err != nil {
			return partition.Tally{}, err
		}
	}
	if err := src.Err(); err != nil {
		return partition.Tally{}, fmt.Errorf("failed to read word list: %w", err)
	}
	return w.Commit()
}

func recordRun(ctx context.Context, cfg model.Config, tally partition.Tally, started time.Time) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("failed to close db", "err", cerr)
		}
	}()
	_, err = history.Record(ctx, st, cfg, tally, started, time.Now())
	return err
}

func newAlphabetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alphabets",
		Short: "List available alphabets",
		Args:  cobra.NoArgs,
		RunE:  runAlphabetsCmd,
	}
}

func runAlphabetsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	reg, err := config.Registry(fileCfg)
	if err != nil {
		return err
	}
	return listAlphabets(cmd.OutOrStdout(), reg)
}

func listAlphabets(w io.Writer, reg *alphabet.Registry) error {
	for _, name := range reg.Names() {
		a, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		lengths := ""
		if a.HasDurations() {
			lengths = "\t(lengths)"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s%s\n", name, a, lengths); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyAlphabet, "alphabet", "", "alphabet filter")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().Int64Var(&historyRun, "run", 0, "show bucket counts of run ID")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("failed to close db", "err", cerr)
		}
	}()

	ctx := cmd.Context()
	if historyRun > 0 {
		counts, err := st.ListBucketCounts(ctx, historyRun)
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", historyRun, err)
		}
		return history.RenderBuckets(cmd.OutOrStdout(), counts)
	}
	runs, err := st.ListRuns(ctx, model.HistoryFilter{Alphabet: historyAlphabet, Last: historyLast})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return history.RenderRuns(cmd.OutOrStdout(), runs)
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("failed to close db", "err", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), model.HistoryFilter{})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	program := tea.NewProgram(historyui.NewModel(st, runs), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kathe configuration
# Uncomment a value to enable it. CLI flags override config values.

[partition]
# alphabet = %q          # Alphabet name (see: kathe alphabets)
# encoding = %q     # Encoding of word lists
# allow-repetition = false  # Allow a letter more than once per word
# lengths = false           # Append set lengths to saved word lists
# save = "partitions"       # Save partitions to this directory
# record = false            # Record runs for kathe history

# Extra alphabets. A name matching a builtin replaces it.
# [alphabets.latin-folded]
# letters = "abcdefghijklmnopqrstuvwxyz"
# fold-marks = true         # Strip accents before matching
# sorted = true             # Require letters in code point order
#
# [alphabets.latin-folded.normalize]
# "ß" = "s"
#
# [alphabets.latin-folded.durations]
# a = 120
`,
		alphabet.DefaultName,
		wordlist.DefaultEncoding,
	)
}
