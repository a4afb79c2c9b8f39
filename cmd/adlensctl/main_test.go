package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adlens/adlens/internal/reporting"
	"github.com/adlens/adlens/jobs"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"jobs", "fetch", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "adlensctl dev\n", out)
}

func TestFetchCountsRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, reporting.EndpointUniqueBrands, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Brand":"Acme","DailySales":"10"},{"Brand":"Beta","DailySales":5}]`))
	}))
	defer srv.Close()

	out, err := execute(t, "fetch", "unique-brands", "--api", srv.URL, "--timeout", "5s")
	require.NoError(t, err)
	assert.Contains(t, out, "unique-brands ok")
	assert.Contains(t, out, "rows 2")
}

func TestFetchReportsUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, err := execute(t, "fetch", "campaigns", "--api", srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, reporting.ErrUpstream)
	assert.Contains(t, out, "status 500")
}

func TestFetchRejectsUnknownReport(t *testing.T) {
	_, err := execute(t, "fetch", "ledger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report")
}

func TestFetchRecommendationsNeedsIdentifiers(t *testing.T) {
	fetchCampaignID, fetchAdGroupID = "", ""
	out, err := execute(t, "fetch", "recommendations", "--api", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, reporting.ErrMissingIdentifier)
	assert.Contains(t, out, "invalid")
}

func TestJobsTriggerRejectsUnknownTask(t *testing.T) {
	mr := miniredis.RunT(t)
	cli := newJobsCLI(mr.Addr())
	defer cli.Close()

	_, err := cli.Trigger(context.Background(), "ledger:close", jobs.ReportsWarmupPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported job")
}

func TestWriteQueueStats(t *testing.T) {
	color.NoColor = true
	buf := new(bytes.Buffer)
	writeQueueStats(buf, queueStats{Queue: jobs.QueueDefault, Pending: 2, Retry: 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "queue default", lines[0])
	assert.Contains(t, lines[1], "2")
	assert.Contains(t, lines[4], "1")
}

func TestWriteFetchSummaryIncludesElapsed(t *testing.T) {
	color.NoColor = true
	buf := new(bytes.Buffer)
	writeFetchSummary(buf, "asins", 0, 1500*time.Millisecond, nil)
	assert.Contains(t, buf.String(), "asins ok in 1.5s")
	assert.Contains(t, buf.String(), "rows 0")
}
