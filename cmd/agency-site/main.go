package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/terra-clan/agency-site/internal/config"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	contentFile string
	logLevel    string
)

// logStreamAnnotation set to "stdout" on a command sends its logs to stdout
const logStreamAnnotation = "log-stream"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "agency-site",
	Short: "AI Digital Agency landing page server",
	Long: `agency-site serves the AI Digital Agency landing page: the hero,
stats, service cards with a persistent per-visitor selection, testimonials
and a working contact form, plus a small JSON API over the same content.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd, logLevel)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agency-site %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentFile, "content", os.Getenv("CONTENT_FILE"),
		"YAML content file (default: built-in content, or CONTENT_FILE env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging installs the JSON slog handler for cmd
func setupLogging(cmd *cobra.Command, level string) error {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOutput(cmd), &slog.HandlerOptions{
		Level: lvl,
	})))
	return nil
}

// logOutput is stdout for commands annotated with it, stderr otherwise so
// render and catalog output stays clean
func logOutput(cmd *cobra.Command) io.Writer {
	if cmd.Annotations[logStreamAnnotation] == "stdout" {
		return os.Stdout
	}
	return os.Stderr
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
