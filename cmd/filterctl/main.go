// filterctl applies grayscale filters to image files
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-filter-engine/internal/config"
	"image-filter-engine/internal/grid"
	"image-filter-engine/internal/io"
	"image-filter-engine/internal/io/cvio"
)

const AppVersion = "1.0.0"

type rootOptions struct {
	configPath string
	debug      bool
	workers    int
	opencv     bool

	cfg    *config.Config
	logger *logrus.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "filterctl",
		Short:         "Apply Gaussian, median, bilateral, Sobel and Laplacian filters to grayscale images",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if opts.configPath != "" {
				loaded, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = opts.workers
			}
			if opts.debug {
				cfg.Debug = true
			}
			opts.cfg = cfg
			opts.logger = initLogger(cfg.Debug)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML or YAML configuration file")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug mode with verbose logging")
	flags.IntVarP(&opts.workers, "workers", "w", 1, "Goroutines per filter")
	flags.BoolVar(&opts.opencv, "opencv", false, "Read and write images with OpenCV codecs")

	cmd.AddCommand(
		newApplyCommand(opts),
		newRunCommand(opts),
		newDemoCommand(opts),
		newListCommand(opts),
		newSubmitCommand(opts),
	)
	return cmd
}

// imageStore is implemented by io.ImageLoader and cvio.Loader
type imageStore interface {
	LoadGrayscale(path string) (*grid.Grid, error)
	SaveImage(g *grid.Grid, path string) error
}

func (o *rootOptions) store() imageStore {
	if o.opencv {
		return cvio.NewLoader(o.logger)
	}
	return io.NewImageLoader(o.logger)
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
