package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesDiscovered(t *testing.T) {
	before := testutil.ToFloat64(filesDiscoveredTotal)
	FilesDiscovered(3)
	FilesDiscovered(0)
	assert.Equal(t, before+3, testutil.ToFloat64(filesDiscoveredTotal))
}

func TestFileProcessed(t *testing.T) {
	parsed := testutil.ToFloat64(filesProcessedTotal.WithLabelValues(OutcomeParsed))
	skipped := testutil.ToFloat64(filesProcessedTotal.WithLabelValues(OutcomeSkipped))

	FileProcessed(OutcomeParsed)
	FileProcessed(OutcomeParsed)
	FileProcessed(OutcomeSkipped)

	assert.Equal(t, parsed+2, testutil.ToFloat64(filesProcessedTotal.WithLabelValues(OutcomeParsed)))
	assert.Equal(t, skipped+1, testutil.ToFloat64(filesProcessedTotal.WithLabelValues(OutcomeSkipped)))
}

func TestCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(classifierCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(classifierCacheTotal.WithLabelValues("miss"))

	CacheLookup(true)
	CacheLookup(false)
	CacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(classifierCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(classifierCacheTotal.WithLabelValues("miss")))
}

func TestHandler(t *testing.T) {
	TaggerCalled()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "reporeport_pos_tagger_calls_total")
	assert.Contains(t, rr.Body.String(), "reporeport_pipeline_files_discovered_total")
}
