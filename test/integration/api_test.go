package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/core/engine"
	"github.com/hide0128/finder/internal/observability"
	"github.com/hide0128/finder/internal/server/handlers"
)

func fakeLookup(ctx context.Context, name string) (*core.CompanyInfo, error) {
	if strings.Contains(name, "失敗") {
		return nil, errors.New("provider unavailable")
	}
	if strings.Contains(name, "遅延") {
		select {
		case <-time.After(30 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &core.CompanyInfo{CompanyName: name, Domain: "example.co.jp", PostalCode: "100-0001"}, nil
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestLookupSettlesEveryName(t *testing.T) {
	observability.InitServerLogger("test", "error", "SIMPLE")
	ts, client := newAPIServer(t, fakeLookup)

	text := strings.Join([]string{
		"株式会社遅延-1(旧)",
		"info@example.com",
		"失敗商事株式会社",
		"",
		"テスト工業株式会社",
	}, "\n")

	resp := postJSON(t, client, ts.URL+"/v1/lookup", handlers.TextRequest{Text: text})
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body handlers.LookupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Results, 3)
	assert.Equal(t, "株式会社遅延", body.Results[0].Name, "slow lookup keeps its input position")
	assert.True(t, body.Results[0].Succeeded())
	assert.Equal(t, "失敗商事株式会社", body.Results[1].Name)
	assert.NotEmpty(t, body.Results[1].Error)
	assert.True(t, body.Results[2].Succeeded())

	require.Len(t, body.Rejected, 1)
	assert.Equal(t, "email", body.Rejected[0].Rule)

	assert.Equal(t, engine.ReportPartial, body.Report.Kind)
	assert.Equal(t, 2, body.Report.Successes)
	assert.Equal(t, 1, body.Report.Failures)
	assert.Contains(t, body.Report.Message, "失敗商事株式会社")
}

func TestLookupThenExportWorkbook(t *testing.T) {
	observability.InitServerLogger("test", "error", "SIMPLE")
	ts, client := newAPIServer(t, fakeLookup)

	resp := postJSON(t, client, ts.URL+"/v1/lookup", handlers.TextRequest{Text: "テスト工業株式会社\n失敗商事株式会社"})
	var lookup handlers.LookupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lookup))
	require.NoError(t, resp.Body.Close())

	resp = postJSON(t, client, ts.URL+"/v1/export", handlers.ExportRequest{
		Results: lookup.Results,
		Columns: []string{"company", "postal"},
	})
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus the one successful lookup")
	assert.Equal(t, "テスト工業株式会社", rows[1][0])
	assert.Equal(t, "100-0001", rows[1][1])
}

func TestMetricsEndpoint_Integration(t *testing.T) {
	observability.InitServerLogger("test", "error", "SIMPLE")
	initMetricsOrSkip(t)

	ts, client := newAPIServer(t, fakeLookup)

	const numRequests = 40
	const numWorkers = 8

	requests := make(chan int, numRequests)
	for i := 0; i < numRequests; i++ {
		requests <- i
	}
	close(requests)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for n := range requests {
				var (
					resp *http.Response
					err  error
				)
				switch n % 3 {
				case 0:
					resp, err = client.Get(ts.URL + "/health")
				case 1:
					resp, err = client.Post(ts.URL+"/v1/normalize", "application/json",
						strings.NewReader(`{"text":"https://example.com"}`))
				default:
					resp, err = client.Post(ts.URL+"/v1/lookup", "application/json",
						strings.NewReader(fmt.Sprintf(`{"text":"テスト%d株式会社\n失敗商事株式会社"}`, n)))
				}
				if err == nil {
					_ = resp.Body.Close()
				}
			}
		}()
	}
	wg.Wait()

	resp, err := client.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, readErr)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	content := string(body)
	assert.Contains(t, content, "test_http_requests_total")
	assert.Contains(t, content, "lookups_total")
	assert.Contains(t, content, "rejected_lines_total")
}

func TestMetricsEndpoint_WithTelemetryDisabled(t *testing.T) {
	observability.InitServerLogger("test", "error", "SIMPLE")

	originalExporter := observability.PrometheusExporter
	originalTelemetry := observability.TelemetrySystem
	observability.PrometheusExporter = nil
	observability.TelemetrySystem = nil
	t.Cleanup(func() {
		observability.PrometheusExporter = originalExporter
		observability.TelemetrySystem = originalTelemetry
	})

	ts, client := newAPIServer(t, fakeLookup)

	resp, err := client.Get(ts.URL + "/health/live")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
