package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamcoop/neurocds/catalog"
	"github.com/liamcoop/neurocds/decision"
	"github.com/liamcoop/neurocds/internal/config"
	"github.com/liamcoop/neurocds/rules"
)

const customCatalog = `{
	"name": "clinic-a",
	"description": "RAPD triage",
	"maxCandidates": 3,
	"diagnoses": [{
		"id": "optic-neuropathy",
		"name": "Optic neuropathy",
		"category": "optic-nerve",
		"criteria": [{"when": "hasRAPD", "weight": 3, "evidence": "RAPD"}]
	}],
	"tests": [{
		"id": "mri",
		"name": "MRI orbits",
		"priority": "high",
		"rationale": "Afferent defect",
		"when": "hasRAPD"
	}],
	"guards": [{"id": "rapd", "level": "warn", "message": "RAPD present", "when": "hasRAPD"}]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Port:                "0",
		AnisocoriaThreshold: 0.5,
		DefaultCatalog:      catalog.NameFull,
		ProgramCacheSize:    256,
	}
	s, err := NewServer(cfg, nil)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewServerUnknownDefaultCatalog(t *testing.T) {
	_, err := NewServer(&config.Config{DefaultCatalog: "missing"}, nil)
	assert.ErrorIs(t, err, rules.ErrCatalogNotFound)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "memory", resp.Storage)
	assert.Equal(t, len(catalog.Names()), resp.CatalogsLoaded)
}

func TestFeatureSchema(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/features/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[FeatureSchemaResponse](t, rec)
	assert.Equal(t, "bool", resp.Features["hasRAPD"])
	assert.Equal(t, "string", resp.Features["dominance"])
	assert.NotContains(t, resp.Features, "readiness")
}

func TestCompute(t *testing.T) {
	s := newTestServer(t)

	testCases := []struct {
		name     string
		body     string
		catalog  string
		top      string
		contains string
		urgency  rules.Level
		message  string
		emptyDdx bool
	}{
		{
			name:     "Horner pattern",
			body:     `{"snapshot": {"pupils": {"odLight": 3.5, "osLight": 2.5, "odDark": 6, "osDark": 4, "ptosis": true, "dilationLag": true}}}`,
			catalog:  catalog.NameFull,
			contains: "Horner syndrome",
			urgency:  rules.LevelWarn,
		},
		{
			name:    "Myasthenia on starter",
			body:    `{"catalog": "starter", "snapshot": {"eom": {"fatigable": true, "ptosis": true, "diplopia": true}}}`,
			catalog: catalog.NameStarter,
			top:     "Myasthenia Gravis",
		},
		{
			name:    "Traumatic optic neuropathy",
			body:    `{"snapshot": {"triage": {"trauma": true}, "pupils": {"rapdOD": "3+"}, "opticNerve": {"discPallorOD": true}}}`,
			catalog: catalog.NameFull,
			top:     "Traumatic Optic Neuropathy",
			urgency: rules.LevelCritical,
		},
		{
			name:     "Empty body",
			body:     "",
			catalog:  catalog.NameFull,
			urgency:  rules.LevelNone,
			message:  decision.MessageNoData,
			emptyDdx: true,
		},
		{
			name:     "Wrong snapshot type",
			body:     `{"snapshot": "pupils normal"}`,
			catalog:  catalog.NameFull,
			urgency:  rules.LevelNone,
			message:  decision.MessageNoData,
			emptyDdx: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/compute", tc.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := decode[ComputeResponse](t, rec)
			assert.NotEmpty(t, resp.RequestID)
			assert.Equal(t, tc.catalog, resp.Catalog)

			if tc.emptyDdx {
				assert.Empty(t, resp.Result.Differential)
			}
			if tc.top != "" {
				require.NotEmpty(t, resp.Result.Differential)
				assert.Equal(t, tc.top, resp.Result.Differential[0].Name)
			}
			if tc.contains != "" {
				names := make([]string, 0, len(resp.Result.Differential))
				for _, c := range resp.Result.Differential {
					names = append(names, c.Name)
				}
				assert.Contains(t, names, tc.contains)
			}
			if tc.urgency != "" {
				assert.Equal(t, tc.urgency, resp.Result.Urgency.Level)
			}
			if tc.message != "" {
				assert.Equal(t, tc.message, resp.Result.Urgency.Message)
			}
		})
	}
}

func TestComputeErrors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/compute", `{"snapshot": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/compute", `{"catalog": "missing", "snapshot": {}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "catalog not found", decode[ErrorResponse](t, rec).Error)
}

func TestComputeResponseShape(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/compute", `{"snapshot": {}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	result := raw["result"].(map[string]any)
	assert.Equal(t, []any{}, result["differential"])
	assert.Contains(t, result, "features")
	assert.Contains(t, result, "testingRecommendations")
	assert.Contains(t, result, "urgency")
}

func TestListCatalogs(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/catalogs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[CatalogsListResponse](t, rec)
	require.Len(t, resp.Catalogs, 2)
	assert.Equal(t, catalog.NameFull, resp.Catalogs[0].Name)
	assert.True(t, resp.Catalogs[0].Builtin)
	assert.Equal(t, len(catalog.Full().Diagnoses), resp.Catalogs[0].Diagnoses)
	assert.Equal(t, catalog.NameStarter, resp.Catalogs[1].Name)
}

func TestGetCatalog(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/catalogs/starter", "")
	require.Equal(t, http.StatusOK, rec.Code)

	c := decode[rules.Catalog](t, rec)
	assert.Equal(t, catalog.NameStarter, c.Name)
	assert.Equal(t, catalog.Starter().Guards, c.Guards)

	rec = do(t, s, http.MethodGet, "/api/v1/catalogs/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/catalogs", customCatalog)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[StoredCatalogResponse](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)

	rec = do(t, s, http.MethodPost, "/api/v1/catalogs", customCatalog)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/compute", `{"catalog": "clinic-a", "snapshot": {"pupils": {"rapdOS": "2+"}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[ComputeResponse](t, rec).Result
	require.Len(t, result.Differential, 1)
	assert.Equal(t, 3, result.Differential[0].Score)
	assert.Equal(t, rules.LevelWarn, result.Urgency.Level)

	updated := strings.Replace(customCatalog, `"level": "warn"`, `"level": "danger"`, 1)
	rec = do(t, s, http.MethodPut, "/api/v1/catalogs/clinic-a", updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, created.ID, decode[StoredCatalogResponse](t, rec).ID)

	rec = do(t, s, http.MethodPost, "/api/v1/compute", `{"catalog": "clinic-a", "snapshot": {"pupils": {"rapdOS": "2+"}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rules.LevelDanger, decode[ComputeResponse](t, rec).Result.Urgency.Level)

	rec = do(t, s, http.MethodDelete, "/api/v1/catalogs/clinic-a", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/catalogs/clinic-a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogWriteErrors(t *testing.T) {
	s := newTestServer(t)

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"Malformed JSON", http.MethodPost, "/api/v1/catalogs", `{"name":`, http.StatusBadRequest},
		{"Unknown field", http.MethodPost, "/api/v1/catalogs", `{"name": "x", "rules": []}`, http.StatusBadRequest},
		{"Fails validation", http.MethodPost, "/api/v1/catalogs", strings.Replace(customCatalog, `"maxCandidates": 3`, `"maxCandidates": 0`, 1), http.StatusUnprocessableEntity},
		{"Fails compilation", http.MethodPost, "/api/v1/catalogs", strings.Replace(customCatalog, `"when": "hasRAPD", "weight"`, `"when": "hasRAPD +", "weight"`, 1), http.StatusUnprocessableEntity},
		{"Create built-in", http.MethodPost, "/api/v1/catalogs", strings.Replace(customCatalog, `"clinic-a"`, `"full"`, 1), http.StatusForbidden},
		{"Update built-in", http.MethodPut, "/api/v1/catalogs/full", strings.Replace(customCatalog, `"clinic-a"`, `"full"`, 1), http.StatusForbidden},
		{"Update name mismatch", http.MethodPut, "/api/v1/catalogs/other", customCatalog, http.StatusBadRequest},
		{"Update missing", http.MethodPut, "/api/v1/catalogs/clinic-a", customCatalog, http.StatusNotFound},
		{"Delete built-in", http.MethodDelete, "/api/v1/catalogs/starter", "", http.StatusForbidden},
		{"Delete missing", http.MethodDelete, "/api/v1/catalogs/missing", "", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)

	before := decode[MetricsResponse](t, do(t, s, http.MethodGet, "/api/v1/metrics", ""))
	do(t, s, http.MethodPost, "/api/v1/compute", `{"snapshot": {}}`)
	do(t, s, http.MethodGet, "/api/v1/catalogs/missing", "")
	after := decode[MetricsResponse](t, do(t, s, http.MethodGet, "/api/v1/metrics", ""))

	assert.Equal(t, before.Computations+1, after.Computations)
	assert.Equal(t, before.HTTP404+1, after.HTTP404)
	assert.Positive(t, after.CachedPrograms)
}
