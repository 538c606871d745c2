package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/terra-clan/agency-site/internal/catalog"
	"github.com/terra-clan/agency-site/internal/models"
	"github.com/terra-clan/agency-site/internal/page"
	"github.com/terra-clan/agency-site/internal/selection"
)

var (
	renderService string
	renderOutput  string
	renderSignup  string
)

// renderCmd writes the page as static HTML
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the landing page to static HTML",
	Long: `Render the full landing page once, with the given service highlighted,
to stdout or a file. Useful for static hosting and previews.`,
	RunE: runRender,
}

// catalogCmd prints the content catalog as YAML
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the content catalog as YAML",
	Long: `Print the services, stats and testimonials in the YAML format read
by --content, starting from the built-in content or the given file.`,
	RunE: runCatalog,
}

func init() {
	renderCmd.Flags().StringVar(&renderService, "service", "", "Service code to highlight (default: first service)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default: stdout)")
	renderCmd.Flags().StringVar(&renderSignup, "signup-url", envOr("LINK_SIGNUP", "/signup"), "Signup link target")
}

func loadCatalog() (*catalog.Catalog, error) {
	if contentFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFromFile(contentFile)
}

func runRender(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	state := selection.New(cat)
	if renderService != "" && !state.Select(models.ServiceCode(renderService)) {
		return fmt.Errorf("unknown service %q (have %v)", renderService, cat.Codes())
	}

	view := page.NewView(page.NewRenderer(cat, page.Links{Signup: renderSignup}), state)

	return writeOutput(cmd, renderOutput, view.Render)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	return writeOutput(cmd, "", func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return enc.Close()
	})
}

func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
