package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/cases"

	"github.com/chuhlomin/docxstyle/internal/wordml"
)

const (
	permFile = 0644
	permDir  = 0755
)

type config struct {
	Mode              string   `env:"DOCXSTYLE_MODE" envDefault:"styles"`
	Weight            string   `env:"DOCXSTYLE_WEIGHT" envDefault:"runs"`
	StyleTypes        []string `env:"DOCXSTYLE_STYLE_TYPES" envDefault:"paragraph" envSeparator:","`
	Styles            []string `env:"DOCXSTYLE_STYLES" envSeparator:","` // style ids or names to keep, case-insensitive
	Format            string   `env:"DOCXSTYLE_FORMAT" envDefault:"text"`
	Language          string   `env:"DOCXSTYLE_LANGUAGE" envDefault:"en"`
	TypographyEnabled bool     `env:"DOCXSTYLE_TYPOGRAPHY_ENABLED" envDefault:"false"`
	SwatchDirectory   string   `env:"DOCXSTYLE_SWATCH_DIRECTORY"`
	Workers           int      `env:"DOCXSTYLE_WORKERS" envDefault:"4"`
	Fonts             bool     `env:"DOCXSTYLE_FONTS" envDefault:"true"`
	Colors            bool     `env:"DOCXSTYLE_COLORS" envDefault:"true"`
	Backup            bool     `env:"DOCXSTYLE_BACKUP" envDefault:"true"`
	FromAnalysis      string   `env:"DOCXSTYLE_FROM_ANALYSIS"`
	Output            string   `env:"DOCXSTYLE_OUTPUT"`
	DryRun            bool     `env:"DOCXSTYLE_DRY_RUN"`
	NoColor           bool     `env:"DOCXSTYLE_NO_COLOR"`
	Verbose           bool     `env:"DOCXSTYLE_VERBOSE"`
}

var logger = zap.NewNop()

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var c config
	if err := env.Parse(&c); err != nil {
		return errors.Wrap(err, "environment variables parsing")
	}

	cmd := newRootCmd(&c)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	started := time.Now()
	err := cmd.ExecuteContext(ctx)
	logger.Debug("Finished", zap.Duration("elapsed", time.Since(started)))
	_ = logger.Sync()
	return err
}

func newRootCmd(c *config) *cobra.Command {
	root := &cobra.Command{
		Use:   "docxstyle",
		Short: "Find the dominant font and color of each style in a .docx and copy them into another",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.NoColor {
				color.NoColor = true
			}

			l, err := newLogger(c.Verbose)
			if err != nil {
				return errors.Wrap(err, "logger initialization")
			}
			logger = l
			logger.Debug("Starting", zap.String("command", cmd.Name()))

			return c.validate()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.Mode, "mode", c.Mode, "where to collect fonts and colors: styles or document")
	flags.StringVar(&c.Weight, "weight", c.Weight, "document mode weighting: runs or chars")
	flags.StringSliceVar(&c.StyleTypes, "style-types", c.StyleTypes, "style types analyzed in styles mode")
	flags.StringSliceVar(&c.Styles, "styles", c.Styles, "only these style ids or names")
	flags.IntVar(&c.Workers, "workers", c.Workers, "source documents parsed in parallel")
	flags.StringVar(&c.Language, "language", c.Language, "report language")
	flags.BoolVar(&c.NoColor, "no-color", c.NoColor, "disable colored output")
	flags.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "debug logging")

	root.AddCommand(newAnalyzeCmd(c), newApplyCmd(c))
	return root
}

func newAnalyzeCmd(c *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SOURCE.docx...",
		Short: "Print the most frequent font and color of each paragraph style",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := analyzeSources(cmd.Context(), args, *c)
			if err != nil {
				return err
			}

			if c.SwatchDirectory != "" {
				if err := writeSwatches(c.SwatchDirectory, a.Styles); err != nil {
					return errors.Wrap(err, "writing swatches")
				}
			}

			r, err := newReporter(*c)
			if err != nil {
				return err
			}
			return r.renderAnalysis(cmd.OutOrStdout(), a)
		},
	}

	cmd.Flags().StringVarP(&c.Format, "format", "f", c.Format, "text, markdown, html, json, yaml or toml")
	cmd.Flags().BoolVar(&c.TypographyEnabled, "typography", c.TypographyEnabled, "typographic cleanup of the html report")
	cmd.Flags().StringVar(&c.SwatchDirectory, "swatch-dir", c.SwatchDirectory, "write a PNG color swatch per style into this directory")
	return cmd
}

func newApplyCmd(c *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [SOURCE.docx] TARGET.docx",
		Short: "Write the dominant fonts and colors of SOURCE into the styles of TARGET",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				a   *analysis
				err error
			)
			switch {
			case c.FromAnalysis != "" && len(args) == 1:
				a, err = loadAnalysis(c.FromAnalysis)
			case c.FromAnalysis == "" && len(args) == 2:
				a, err = analyzeSources(cmd.Context(), args[:1], *c)
			default:
				return errors.New("expected SOURCE.docx TARGET.docx, or --from-analysis FILE TARGET.docx")
			}
			if err != nil {
				return err
			}

			outcome, err := applyAnalysis(args[len(args)-1], a, *c)
			if err != nil {
				return err
			}

			r, err := newReporter(*c)
			if err != nil {
				return err
			}
			return r.renderApply(cmd.OutOrStdout(), outcome)
		},
	}

	cmd.Flags().StringVar(&c.FromAnalysis, "from-analysis", c.FromAnalysis, "read the analysis from a json, yaml or toml file instead of a source document")
	cmd.Flags().StringVarP(&c.Output, "output", "o", c.Output, "write the result here instead of overwriting the target")
	cmd.Flags().BoolVar(&c.DryRun, "dry-run", c.DryRun, "report changes without writing")
	cmd.Flags().BoolVar(&c.Backup, "backup", c.Backup, "copy the target to <name>_backup before overwriting it")
	cmd.Flags().BoolVar(&c.Fonts, "fonts", c.Fonts, "write fonts")
	cmd.Flags().BoolVar(&c.Colors, "colors", c.Colors, "write colors")
	return cmd
}

// newLogger builds the logger installed before each command runs.
var newLogger = func(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func (c config) validate() error {
	switch wordml.Mode(c.Mode) {
	case wordml.ModeStyles, wordml.ModeDocument:
	default:
		return errors.Errorf("unknown mode %q", c.Mode)
	}

	switch wordml.Weight(c.Weight) {
	case wordml.WeightRuns, wordml.WeightChars:
	default:
		return errors.Errorf("unknown weight %q", c.Weight)
	}

	if !inArray(formats, c.Format) {
		return errors.Wrapf(ErrUnknownFormat, "%q", c.Format)
	}

	if c.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

func (c config) analyzeOptions() wordml.Options {
	return wordml.Options{
		Mode:       wordml.Mode(c.Mode),
		Weight:     wordml.Weight(c.Weight),
		StyleTypes: c.StyleTypes,
		Include:    tallyFilter(styleMatcher(c.Styles)),
	}
}

// styleMatcher matches style ids and names against the configured list,
// ignoring case. It returns nil when every style is wanted.
func styleMatcher(names []string) func(id, name string) bool {
	wanted := map[string]bool{}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			wanted[cases.Fold().String(n)] = true
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	return func(id, name string) bool {
		// Casers are not safe for concurrent use
		if wanted[cases.Fold().String(id)] {
			return true
		}
		return name != "" && wanted[cases.Fold().String(name)]
	}
}

func tallyFilter(match func(id, name string) bool) func(*wordml.StyleTally) bool {
	if match == nil {
		return nil
	}
	return func(st *wordml.StyleTally) bool {
		return match(st.StyleID, st.Name)
	}
}

func inArray(s []string, needle string) bool {
	for _, s := range s {
		if s == needle {
			return true
		}
	}
	return false
}
