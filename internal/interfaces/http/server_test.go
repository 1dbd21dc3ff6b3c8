package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validationly/signalscan/internal/digest"
	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/pain"
	"github.com/validationly/signalscan/internal/scan"
	"github.com/validationly/signalscan/internal/source"
	"github.com/validationly/signalscan/internal/textgen"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	reg := source.Registry{}
	for _, id := range source.All() {
		reg[id] = source.NewFakeAdapter(id)
	}
	scanner := scan.NewScanner(reg, normalize.NewNormalizer())
	return NewServer(scanner, pain.NewExtractor(), digest.NewBuilder(), textgen.Static{Text: "canned note"})
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestScanEndpoint(t *testing.T) {
	w := post(t, testServer(t), "/v1/scan", `{"query":"invoice automation","sources":["reddit","github"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ScanID  string `json:"scan_id"`
		Signals []struct {
			SourceID string `json:"source_id"`
		} `json:"signals"`
		Score struct {
			DemandIndex float64 `json:"demand_index"`
		} `json:"score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ScanID)
	require.Len(t, resp.Signals, 2)
	assert.Equal(t, "reddit", resp.Signals[0].SourceID)
	assert.Equal(t, "github", resp.Signals[1].SourceID)
	assert.GreaterOrEqual(t, resp.Score.DemandIndex, 0.0)
	assert.LessOrEqual(t, resp.Score.DemandIndex, 100.0)
}

func TestScanEndpointEmptyQuery(t *testing.T) {
	w := post(t, testServer(t), "/v1/scan", `{"query":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestScanEndpointUnknownSource(t *testing.T) {
	w := post(t, testServer(t), "/v1/scan", `{"query":"x","sources":["friendster"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanEndpointMalformedBody(t *testing.T) {
	w := post(t, testServer(t), "/v1/scan", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPainEndpoint(t *testing.T) {
	w := post(t, testServer(t), "/v1/pain", `{"query":"invoice tools","persona":"founder"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Persona  string `json:"persona"`
		Clusters []any  `json:"pain_clusters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "founder", resp.Persona)
}

func TestPainEndpointUnknownPersona(t *testing.T) {
	w := post(t, testServer(t), "/v1/pain", `{"query":"x","persona":"ceo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDigestEndpoint(t *testing.T) {
	w := post(t, testServer(t), "/v1/digest", `{"category":"billing tools","prose":true}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Category   string `json:"category"`
		SAR        int    `json:"sar"`
		TopSignals []any  `json:"top_signals"`
		ShareText  string `json:"share_text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "billing tools", resp.Category)
	assert.GreaterOrEqual(t, resp.SAR, 0)
	assert.LessOrEqual(t, resp.SAR, 100)
	assert.LessOrEqual(t, len(resp.TopSignals), 5)
	assert.Equal(t, "canned note", resp.ShareText)
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	testServer(t).Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	testServer(t).Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
