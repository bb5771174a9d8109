package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/artifact"
)

// Theme captures optional prefixes the runner applies when printing
// messages. Colours live in the progress bar styles.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme is used when no theme is supplied.
var DefaultTheme = Theme{InfoPrefix: "", ErrorPrefix: "✗ "}

// Option configures the wizard runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithArtifactFormat selects the confirmation printed once the declaration is
// accepted. Terminal markdown by default.
func WithArtifactFormat(format artifact.Format) Option {
	return func(r *Runner) {
		if format != "" {
			r.format = format
		}
	}
}

// WithProgress toggles the progress bar printed before each step.
func WithProgress(enabled bool) Option {
	return func(r *Runner) {
		r.progress = enabled
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
