package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/VantageDataChat/slidedom"
	"github.com/VantageDataChat/slidedom/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "slidedom",
	Short: "Inspect and edit .pptx presentations",
	Long: `slidedom reads a .pptx presentation into its object model, applies
edits with style inheritance and text autofit, and writes it back.

Settings come from slidedom.yaml in the --config directory and from
SLIDEDOM_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", ".", "Directory searched for slidedom.yaml")
	rootCmd.PersistentFlags().Bool("metrics", false, "Print autofit and media counters on exit")
	rootCmd.AddCommand(inspectCmd, setTextCmd, setFillCmd, mediaCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session holds what every subcommand needs to open a document.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	reg     *prometheus.Registry
	metrics *slidedom.Metrics
}

func newSession(cmd *cobra.Command) (*session, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	return &session{
		cfg:     cfg,
		logger:  newLogger(cmd.ErrOrStderr(), cfg.Log),
		reg:     reg,
		metrics: slidedom.NewMetrics(reg),
	}, nil
}

func newLogger(w io.Writer, c config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (s *session) options() []slidedom.Option {
	opts := []slidedom.Option{
		slidedom.WithLogger(s.logger),
		slidedom.WithMetrics(s.metrics),
		slidedom.WithAutofitOptions(slidedom.AutofitOptions{
			ShrinkStep: s.cfg.Autofit.ShrinkStep,
			MinScale:   s.cfg.Autofit.MinScale,
		}),
	}
	if len(s.cfg.Fonts.Dirs) > 0 {
		opts = append(opts, slidedom.WithFontDirs(s.cfg.Fonts.Dirs...))
	}
	if s.cfg.Media.Hash == "blake2b" {
		opts = append(opts, slidedom.WithHasher(slidedom.BLAKE2b512))
	}
	return opts
}

func (s *session) open(path string) (*slidedom.Document, error) {
	return slidedom.Open(path, s.options()...)
}

// finish prints the counters when --metrics is set.
func (s *session) finish(cmd *cobra.Command) error {
	if on, _ := cmd.Flags().GetBool("metrics"); !on {
		return nil
	}
	families, err := s.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	w := cmd.OutOrStdout()
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s count=%d sum=%g\n", name, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return nil
}
