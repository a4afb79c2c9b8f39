package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adlens/adlens/internal/dashboard"
	"github.com/adlens/adlens/internal/reporting"
)

var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

var (
	fetchCampaignID string
	fetchAdGroupID  string
	fetchStart      string
	fetchEnd        string
)

// fetchers maps report names to the typed call that loads them and returns
// the row count.
var fetchers = map[string]func(ctx context.Context, r *reporting.Reports) (int, error){
	"campaigns":     count((*reporting.Reports).CampaignRows),
	"asins":         count((*reporting.Reports).AsinRows),
	"keywords":      count((*reporting.Reports).KeywordReport),
	"brands":        count((*reporting.Reports).BrandRows),
	"unique-brands": count((*reporting.Reports).UniqueBrandRows),
	"campaign-data": count((*reporting.Reports).CampaignSeries),
	"recommendations": func(ctx context.Context, r *reporting.Reports) (int, error) {
		rows, err := r.KeywordRecommendations(ctx, fetchCampaignID, fetchAdGroupID)
		return len(rows), err
	},
	"filtered-brands": func(ctx context.Context, r *reporting.Reports) (int, error) {
		rng, err := dashboard.ParseDateRange(fetchStart, fetchEnd)
		if err != nil {
			return 0, err
		}
		rows, err := r.FilteredBrandRows(ctx, rng)
		return len(rows), err
	},
}

func count[T any](load func(*reporting.Reports, context.Context) ([]T, error)) func(context.Context, *reporting.Reports) (int, error) {
	return func(ctx context.Context, r *reporting.Reports) (int, error) {
		rows, err := load(r, ctx)
		return len(rows), err
	}
}

func reportNames() []string {
	names := make([]string, 0, len(fetchers))
	for name := range fetchers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <report>",
	Short: "Fetch one report from the reporting API",
	Long:  "Fetch one report and print its row count. Reports: " + strings.Join(reportNames(), ", ") + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		load, ok := fetchers[args[0]]
		if !ok {
			return fmt.Errorf("unknown report %q (want one of %s)", args[0], strings.Join(reportNames(), ", "))
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		client := reporting.NewClient(reportAPI)
		started := time.Now()
		rows, err := load(ctx, reporting.NewReports(client))
		writeFetchSummary(cmd.OutOrStdout(), args[0], rows, time.Since(started), err)
		return err
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchCampaignID, "campaign", "", "campaign id for recommendations")
	fetchCmd.Flags().StringVar(&fetchAdGroupID, "adgroup", "", "ad group id for recommendations")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "start date (YYYY-MM-DD) for filtered-brands")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "end date (YYYY-MM-DD) for filtered-brands")
}

func writeFetchSummary(w io.Writer, name string, rows int, elapsed time.Duration, err error) {
	fmt.Fprintf(w, "%s %s in %s\n", colorBold.Sprint(name), outcomeLabel(err), elapsed.Round(time.Millisecond))
	if err != nil {
		fmt.Fprintf(w, "  %s\n", err)
		return
	}
	fmt.Fprintf(w, "  rows %s\n", colorCount(rows))
}

// outcomeLabel names the failure class of a fetch.
func outcomeLabel(err error) string {
	var (
		netErr    *reporting.NetworkError
		statusErr *reporting.StatusError
		shapeErr  *reporting.ShapeError
	)
	switch {
	case err == nil:
		return colorGreen.Sprint("ok")
	case errors.As(err, &statusErr):
		return colorRed.Sprintf("status %d", statusErr.Status)
	case errors.As(err, &shapeErr):
		return colorRed.Sprint("bad payload")
	case errors.As(err, &netErr):
		return colorRed.Sprint("unreachable")
	default:
		return colorYellow.Sprint("invalid")
	}
}

// colorCount colors a count: 0 is yellow, more is green.
func colorCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n == 0 {
		return colorYellow.Sprint(s)
	}
	return colorGreen.Sprint(s)
}
