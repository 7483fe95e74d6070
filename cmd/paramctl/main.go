package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/repositories"
	"alfredoptarigan/resume-scorer/internal/resilience"
	"alfredoptarigan/resume-scorer/internal/scoring"
	"alfredoptarigan/resume-scorer/internal/services"
)

// classifier is the part of scoring.Classifier the CLI needs.
type classifier interface {
	Classify(ctx context.Context, name string) (scoring.Category, error)
}

// app is the state shared by all subcommands, built once in PersistentPreRunE.
type app struct {
	paramsFile string
	verbose    bool

	cfg        *config.Config
	log        *zap.Logger
	store      repositories.ParameterStore
	classifier classifier
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "paramctl",
		Short:         "Manage resume scoring parameters",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.paramsFile, "params", "p", "", "Path to the parameters file (default: PARAMETERS_FILE or parameters.json)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log external calls")

	rootCmd.AddCommand(newClassifyCmd(a))
	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	return rootCmd
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.log == nil {
		a.log = zap.NewNop()
		if a.verbose {
			if a.log, err = logger.New(false, true); err != nil {
				return err
			}
		}
	}

	if a.paramsFile == "" {
		a.paramsFile = cfg.Scoring.ParametersFile
	}
	if a.store == nil {
		a.store = repositories.NewParameterStore(a.paramsFile)
	}

	if a.classifier == nil {
		if ctx == nil {
			ctx = context.Background()
		}
		completer, err := services.NewCompleter(ctx, cfg.LLM, a.log)
		if err != nil {
			return err
		}
		limiter, err := resilience.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		if err != nil {
			return err
		}
		guard := resilience.NewGuard(limiter, resilience.Policy{
			Attempts:  cfg.Retry.Attempts,
			BaseDelay: cfg.Retry.BaseDelay,
			MaxDelay:  cfg.Retry.MaxDelay,
		}, a.log)
		a.classifier = scoring.NewClassifier(completer, guard, a.log)
	}
	return nil
}
