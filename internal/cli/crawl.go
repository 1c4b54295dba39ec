package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/atcoder-submissions/internal/atcoder"
	"github.com/pfrederiksen/atcoder-submissions/internal/crawler"
	"github.com/pfrederiksen/atcoder-submissions/internal/logger"
	"github.com/pfrederiksen/atcoder-submissions/internal/storage"
	"github.com/pfrederiksen/atcoder-submissions/internal/submission"
	"github.com/spf13/cobra"
)

type crawlOptions struct {
	outputOptions
	contestID string
	recent    bool
	maxPages  uint32
	refresh   bool
}

func newCrawlCmd(a *app) *cobra.Command {
	opts := &crawlOptions{}

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a contest's submissions and report new ones",
		Long: `Fetch a contest's submissions list from AtCoder, store it in the local
snapshot, and print submissions that were not seen before.
Exits with status 2 when new submissions were found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCrawl(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.contestID, "contest", "", "Contest id, e.g. abc107 (required)")
	cmd.Flags().BoolVar(&opts.recent, "recent", false, "Stop at the first page with no new submissions")
	cmd.Flags().Uint32Var(&opts.maxPages, "max-pages", 0, "Fetch at most this many pages (0 = no limit)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Refresh snapshot without showing new submissions")
	opts.outputOptions.register(cmd)

	cmd.MarkFlagRequired("contest")

	return cmd
}

func (a *app) runCrawl(cmd *cobra.Command, opts *crawlOptions) error {
	contestID := strings.TrimSpace(opts.contestID)
	if contestID == "" {
		return fmt.Errorf("--contest is required")
	}
	if err := opts.validate(); err != nil {
		return err
	}

	log := logger.Default().With(logger.Fields{"contest_id": contestID})

	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	previous, err := store.LoadSnapshot(contestID)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	log.Debug("Loaded snapshot", logger.Fields{"submissions": len(previous.Submissions)})

	client := atcoder.NewClient(a.cfg.BaseURL, a.cfg.UserAgent, a.cfg.MaxRetries)
	cr := crawler.New(client, a.cfg.RequestInterval, log)

	var current []*submission.Submission
	if opts.recent {
		current, err = cr.CrawlRecent(cmd.Context(), contestID, previous, opts.maxPages)
	} else {
		current, err = cr.CrawlContest(cmd.Context(), contestID, opts.maxPages)
	}
	if err != nil {
		log.Error("Crawl failed", nil, err)
		return fmt.Errorf("crawling %s: %w", contestID, err)
	}

	diff := submission.Diff(previous, current)

	added, err := store.SaveSubmissions(contestID, current)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	log.Info("Saved snapshot", logger.Fields{
		"new_submissions": added,
		"metrics":         logger.GetMetricsSnapshot(),
	})

	if opts.refresh {
		fmt.Fprintln(cmd.OutOrStdout(), "Snapshot refreshed successfully.")
		return nil
	}

	subs := opts.apply(diff.NewSubmissions)
	result := &OutputResult{
		CheckedAt:   time.Now().UTC(),
		ContestID:   contestID,
		Submissions: subs,
		Count:       len(subs),
		ByProblem:   groupByProblem(subs),
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, opts.outputFormat(), opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(diff.NewSubmissions) > 0 {
		a.exitCode = ExitNewSubmissions
	}
	return nil
}
