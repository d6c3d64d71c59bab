// Package main provides the CLI entrypoint for typesprint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/corpus"
	"github.com/verte-zerg/typesprint/internal/feedback"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/statsui"
	"github.com/verte-zerg/typesprint/internal/store"
	"github.com/verte-zerg/typesprint/internal/tui"
)

const (
	defaultMode        = string(model.ModeWords)
	defaultTime        = 30
	defaultWords       = session.DefaultWordCount
	defaultCurveWindow = 10
	plainPlotHeight    = 10
)

var (
	testMode       string
	testTime       int
	testWords      int
	testWordsFile  string
	testQuotesFile string
	testSound      bool

	historyMode        string
	historyTime        int
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyPlain       bool

	bestReset bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typesprint",
		Short:         "Timed typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().StringVar(&testMode, "mode", defaultMode, "text mode: words or quote")
	rootCmd.Flags().IntVar(&testTime, "time", defaultTime, "test length in seconds (15, 30, 60, 120)")
	rootCmd.Flags().IntVar(&testWords, "words", defaultWords, "words drawn per test in words mode")
	rootCmd.Flags().StringVar(&testWordsFile, "words-file", "", "word list file, one word per line")
	rootCmd.Flags().StringVar(&testQuotesFile, "quotes-file", "", "quote file, one quote per line")
	rootCmd.Flags().BoolVar(&testSound, "sound", false, "ring the terminal bell on mistakes and at the end")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newBestCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyTestConfig(cmd, fileCfg.Test)

	cfg, err := buildTestConfig()
	if err != nil {
		return err
	}

	texts, err := corpus.Open(cfg.WordsFile, cfg.QuotesFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	if err := checkCorpus(cfg.Mode, texts); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var fb feedback.Adapter = feedback.Silent{}
	if cfg.Sound {
		fb = feedback.NewTones(feedback.NewBell(os.Stderr))
	}

	m, err := tui.NewModel(cfg, texts, st, fb)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applyTestConfig(cmd *cobra.Command, fileCfg config.TestConfig) {
	applyStringConfig(cmd, "mode", &testMode, fileCfg.Mode)
	applyIntConfig(cmd, "time", &testTime, fileCfg.Time)
	applyIntConfig(cmd, "words", &testWords, fileCfg.Words)
	applyStringConfig(cmd, "words-file", &testWordsFile, fileCfg.WordsFile)
	applyStringConfig(cmd, "quotes-file", &testQuotesFile, fileCfg.QuotesFile)
	applyBoolConfig(cmd, "sound", &testSound, fileCfg.Sound)
}

func buildTestConfig() (model.Config, error) {
	mode, err := model.ParseMode(testMode)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --mode: %w", err)
	}
	cfg := model.Config{
		Mode:       mode,
		Duration:   testTime,
		Words:      testWords,
		WordsFile:  expandHome(testWordsFile),
		QuotesFile: expandHome(testQuotesFile),
		Sound:      testSound,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("--time must be > 0")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	return nil
}

func checkCorpus(mode model.Mode, texts *corpus.Corpus) error {
	words, quotes := texts.Sizes()
	switch {
	case mode == model.ModeWords && words == 0:
		return fmt.Errorf("word list is empty")
	case mode == model.ModeQuote && quotes == 0:
		return fmt.Errorf("quote list is empty")
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
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
		Short: "Browse past tests",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyMode, "mode", "", "mode filter: words or quote")
	cmd.Flags().IntVar(&historyTime, "time", 0, "test length filter in seconds")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N tests")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the browser (default when stdout is not a terminal)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &historyCurveWindow, fileCfg.History.CurveWindow)

	cfg, err := buildHistoryConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain || !isTerminal(os.Stdout) {
		return printHistory(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func buildHistoryConfig() (model.HistoryConfig, error) {
	cfg := model.HistoryConfig{
		Duration:    historyTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
	}
	if historyMode != "" {
		mode, err := model.ParseMode(historyMode)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --mode: %w", err)
		}
		cfg.Mode = mode
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if cfg.Duration < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--time must be >= 0")
	}
	if cfg.Last < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow < 1 {
		return model.HistoryConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return cfg, nil
}

func printHistory(ctx context.Context, w io.Writer, src stats.HistorySource, cfg model.HistoryConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, src, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := stats.RenderSummary(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSessionTable(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow, 0, plainPlotHeight, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newBestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show personal best",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
	cmd.Flags().BoolVar(&bestReset, "reset", false, "clear the stored personal best")
	return cmd
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if bestReset {
		if err := st.ResetBest(ctx); err != nil {
			return fmt.Errorf("failed to reset personal best: %w", err)
		}
		logErrln("Personal best cleared.")
		return nil
	}
	best, err := st.GetBest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load personal best: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d WPM\n", best); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typesprint configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# mode = %q           # words or quote
# time = %d              # Test length in seconds (15, 30, 60, 120)
# words = %d            # Words drawn per test in words mode
# words-file = ""         # Word list, one word per line
# quotes-file = ""        # Quotes, one per line
# sound = false           # Ring the terminal bell on mistakes and at the end

[history]
# curve-window = %d      # Moving average window for learning curves
`,
		defaultMode,
		defaultTime,
		defaultWords,
		defaultCurveWindow,
	)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
