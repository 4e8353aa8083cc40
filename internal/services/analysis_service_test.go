package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leanixcli/internal/config"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Broadcast(eventType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}

func writeTestCSV(t *testing.T) string {
	t.Helper()

	content := "Application_Name,Business_Criticality,Maintenance_Cost,Development_Cost," +
		"Risk_Level,Security_Score,Compliance_Status,Vulnerability_Count," +
		"Performance_Score,Availability_Percentage,Owner_Department\n" +
		"CRM,High,10000,20000,Medium,85,Compliant,3,90,99.9,Sales\n" +
		"ERP,Critical,30000,5000,High,60,Non-Compliant,8,55,97.5,Finance\n"

	path := filepath.Join(t.TempDir(), "portfolio.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestService(t *testing.T, hub Broadcaster) *AnalysisService {
	t.Helper()

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)
	return NewAnalysisService(cfg, nil, nil, hub)
}

func TestAnalyzeBuildsSnapshot(t *testing.T) {
	t.Parallel()

	service := newTestService(t, nil)
	path := writeTestCSV(t)

	snapshot, err := service.Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, snapshot.Source)
	assert.Equal(t, 2, snapshot.Overview.Records)
	assert.False(t, snapshot.NoData())
	assert.InDelta(t, 65000.0, snapshot.Business.TotalCost, 1e-9)
	assert.NotEmpty(t, snapshot.Quality.Label)
	assert.Len(t, snapshot.Correlation.Values, len(snapshot.Correlation.Columns))
	assert.False(t, snapshot.GeneratedAt.IsZero())
}

func TestAnalyzeMissingFile(t *testing.T) {
	t.Parallel()

	service := newTestService(t, nil)

	_, err := service.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}

func TestLatestBeforeAndAfterAnalyze(t *testing.T) {
	t.Parallel()

	service := newTestService(t, nil)
	ctx := context.Background()

	_, err := service.Latest(ctx)
	require.Error(t, err)

	want, err := service.Analyze(ctx, writeTestCSV(t))
	require.NoError(t, err)

	got, err := service.Latest(ctx)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestAnalyzeBroadcastsCompletion(t *testing.T) {
	t.Parallel()

	hub := &recordingBroadcaster{}
	service := newTestService(t, hub)

	_, err := service.Analyze(context.Background(), writeTestCSV(t))
	require.NoError(t, err)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Len(t, hub.events, 1)
	assert.Equal(t, "analysis:complete", hub.events[0])
}

func TestAnalyzeFailureKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	service := newTestService(t, nil)
	ctx := context.Background()

	first, err := service.Analyze(ctx, writeTestCSV(t))
	require.NoError(t, err)

	_, err = service.Analyze(ctx, filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)

	got, err := service.Latest(ctx)
	require.NoError(t, err)
	assert.Same(t, first, got)
}
