package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/atcoder-submissions/internal/scraper"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	outputOptions
	file      string
	contestID string
}

func newParseCmd(a *app) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a saved submissions list page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "-", "HTML file to parse, - for stdin")
	cmd.Flags().StringVar(&opts.contestID, "contest", "", "Contest id the page belongs to (required)")
	opts.outputOptions.register(cmd)

	cmd.MarkFlagRequired("contest")

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, opts *parseOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	html, err := readInput(cmd, opts.file)
	if err != nil {
		return err
	}

	subs, err := scraper.ScrapeSubmissions(html, strings.TrimSpace(opts.contestID))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", opts.file, err)
	}

	subs = opts.apply(subs)
	result := &OutputResult{
		CheckedAt:   time.Now().UTC(),
		ContestID:   opts.contestID,
		Submissions: subs,
		Count:       len(subs),
		ShowAll:     true,
	}
	return WriteOutput(cmd.OutOrStdout(), result, opts.outputFormat(), opts.verbose)
}

type pagesOptions struct {
	file   string
	format string
}

func newPagesCmd(a *app) *cobra.Command {
	opts := &pagesOptions{}

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Print the highest page number linked from a saved listing",
		Long: `Print the highest page number linked from a saved submissions list page.
A page without pagination links is reported as an error: it may be a single-page
listing or not a listing at all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPages(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "-", "HTML file to read, - for stdin")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")

	return cmd
}

func (a *app) runPages(cmd *cobra.Command, opts *pagesOptions) error {
	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}

	html, err := readInput(cmd, opts.file)
	if err != nil {
		return err
	}

	count, err := scraper.ScrapePageCount(html)
	if errors.Is(err, scraper.ErrNoPaginationLink) {
		return fmt.Errorf("%s: %w (single-page listing or not a submissions page)", opts.file, err)
	} else if err != nil {
		return fmt.Errorf("%s: %w", opts.file, err)
	}

	return writePageCount(cmd.OutOrStdout(), count, format)
}

func readInput(cmd *cobra.Command, file string) (string, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(data), nil
}
