package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	recorder := NewRecorder()
	scoped := NewScopedAPI("enrich", NewScopedAPI("imdb", recorder))

	scoped.ReportBroken("enricher.fetch", errors.New("boom"))
	scoped.ReportWarning("enricher.lookup", "nm0000158")
	scoped.ReportDebug("cache hit")
	scoped.ReportCount("enricher.cache-size", 3)

	broken := recorder.Reports(REPORT_BROKEN)
	require.Len(t, broken, 1)
	require.Equal(t, "imdb:enrich:enricher.fetch", broken[0].Id)
	require.EqualError(t, broken[0].Params[0].(error), "boom")

	warnings := recorder.Reports(REPORT_WARNING)
	require.Len(t, warnings, 1)
	require.Equal(t, []any{"nm0000158"}, warnings[0].Params)

	debug := recorder.Reports(REPORT_DEBUG)
	require.Len(t, debug, 1)
	require.Equal(t, "imdb: enrich: cache hit", debug[0].Id)

	counts := recorder.Reports(REPORT_COUNT)
	require.Len(t, counts, 1)
	require.Equal(t, int64(3), counts[0].Count)

	require.True(t, recorder.Has(REPORT_WARNING, "enricher.lookup"))
	require.False(t, recorder.Has(REPORT_BROKEN, "enricher.lookup"))
}
