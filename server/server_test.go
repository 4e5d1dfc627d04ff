package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ignatius32/programas-crubunco/core"
	"github.com/Ignatius32/programas-crubunco/core/archive"
	"github.com/Ignatius32/programas-crubunco/core/catalog"
	"github.com/Ignatius32/programas-crubunco/core/dispatch"
	"github.com/Ignatius32/programas-crubunco/core/render"
)

// newTestServer builds a server over a small archive. docURL, when set, is
// used as the archived document location of the first legacy record.
// catalogURL configures the live catalog; empty leaves it unconfigured.
func newTestServer(t *testing.T, docURL, catalogURL string) *Server {
	t.Helper()
	dir := t.TempDir()

	writeFixture(t, filepath.Join(dir, "carreras.json"), []map[string]any{
		{"carrera": "IELB", "nombre": "Ingeniería Electrónica"},
		{"carrera": "PROF", "nombre": "Profesorado en Matemática"},
	})
	writeFixture(t, filepath.Join(dir, "programas_viejos.json"), []map[string]any{
		{
			"nombre_materia": "Análisis Matemático I",
			"codigo_carrera": "PROF",
			"ano_academico":  "2010",
			"ano_plan":       "1998",
			"url_programa":   docURL,
		},
		{
			"nombre_materia": "Física I",
			"codigo_carrera": "IELB",
			"ano_academico":  "2012",
			"ano_plan":       "2005",
		},
	})
	writeFixture(t, filepath.Join(dir, "planes_estudio.json"), []map[string]any{
		{
			"carrera":          "PROF",
			"nombre":           "Profesorado en Matemática",
			"plan_version_SIU": "PROF-1998-V1",
			"url_planEstudio":  docURL,
			"vigente":          "Sí",
		},
	})

	store, err := archive.Load(dir)
	require.NoError(t, err)

	cat := catalog.New(catalog.Config{BaseURL: catalogURL})
	cat.CareerName = store.CareerName

	disp := dispatch.New(store, cat, render.NewPDFRenderer(""))
	return New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})), store, cat, disp)
}

func writeFixture(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodePrograms(t *testing.T, rec *httptest.ResponseRecorder) []core.Program {
	t.Helper()
	var programs []core.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &programs))
	return programs
}

func TestSearchProgramsLocalOnly(t *testing.T) {
	s := newTestServer(t, "", "")

	rec := get(t, s, "/api/search_programs?query=física")
	require.Equal(t, http.StatusOK, rec.Code)

	programs := decodePrograms(t, rec)
	require.Len(t, programs, 1)
	assert.Equal(t, "Física I", programs[0].Subject)
	assert.Equal(t, archive.OriginLegacy, programs[0].Origin)
}

func TestSearchProgramsMergesCatalog(t *testing.T) {
	cat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 9, "nombre_materia": "Álgebra Lineal", "cod_carrera": "IELB", "ano_academico": 2025},
		})
	}))
	defer cat.Close()

	s := newTestServer(t, "", cat.URL)
	rec := get(t, s, "/api/search_programs")
	require.Equal(t, http.StatusOK, rec.Code)

	programs := decodePrograms(t, rec)
	require.Len(t, programs, 3)
	// Sorted by subject: Álgebra sorts after ASCII subjects.
	assert.Equal(t, "9", programs[2].ID)
	assert.Equal(t, catalog.OriginCurrent, programs[2].Origin)
}

func TestSearchProgramsCatalogDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close()

	s := newTestServer(t, "", down.URL)
	rec := get(t, s, "/api/search_programs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodePrograms(t, rec), 2)
}

func TestSearchProgramsEmptyIsArray(t *testing.T) {
	s := newTestServer(t, "", "")
	rec := get(t, s, "/api/search_programs?query=inexistente")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestProgramsByCareerYear(t *testing.T) {
	s := newTestServer(t, "", "")

	rec := get(t, s, "/api/programs_by_career_year?carrera=IELB")
	require.Equal(t, http.StatusOK, rec.Code)
	programs := decodePrograms(t, rec)
	require.Len(t, programs, 1)
	assert.Equal(t, "Física I", programs[0].Subject)

	rec = get(t, s, "/api/programs_by_career_year?carrera=IELB&plan_year=1998")
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestProgramsByCareerYearRequiresCarrera(t *testing.T) {
	s := newTestServer(t, "", "")
	rec := get(t, s, "/api/programs_by_career_year")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Carrera parameter is required")
}

func TestAvailableYears(t *testing.T) {
	s := newTestServer(t, "", "")

	rec := get(t, s, "/api/available_years/academico?carrera=PROF")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["2010"]`, rec.Body.String())

	rec = get(t, s, "/api/available_years/cursada?carrera=IELB")
	assert.JSONEq(t, `["2005"]`, rec.Body.String())
}

func TestAvailableYearsValidation(t *testing.T) {
	s := newTestServer(t, "", "")

	rec := get(t, s, "/api/available_years/fiscal?carrera=PROF")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, s, "/api/available_years/academico")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchPlanes(t *testing.T) {
	s := newTestServer(t, "https://archivo.example/plan.pdf", "")

	rec := get(t, s, "/api/search_planes?carrera=PROF")
	require.Equal(t, http.StatusOK, rec.Code)
	var plans []core.StudyPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "PROF-1998-V1", plans[0].VersionSIU)

	rec = get(t, s, "/api/search_planes?carrera=IELB")
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestPlanesOptions(t *testing.T) {
	s := newTestServer(t, "https://archivo.example/plan.pdf", "")
	rec := get(t, s, "/api/planes_options")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Careers []archive.Option `json:"careers"`
		States  []string         `json:"vigencia_states"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Careers, 1)
	assert.Equal(t, "Profesorado en Matemática", body.Careers[0].Name)
	assert.Equal(t, []string{"Sí"}, body.States)
}

func TestSearchOptions(t *testing.T) {
	s := newTestServer(t, "", "")
	rec := get(t, s, "/api/search_options")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Careers []archive.Option `json:"careers"`
		Years   []string         `json:"academic_years"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Careers, 2)
	assert.Equal(t, []string{"2012", "2010"}, body.Years)
}

func TestDownloadProgramaLegacy(t *testing.T) {
	payload := []byte("%PDF-1.4 archivado")
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer files.Close()

	s := newTestServer(t, files.URL, "")
	rec := get(t, s, "/download/programa/old-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Analisis_Matematico_I_PROF_2010.pdf")
	assert.Equal(t, payload, rec.Body.Bytes())
}

func TestDownloadProgramaNotFound(t *testing.T) {
	s := newTestServer(t, "", "")

	// Out of range.
	rec := get(t, s, "/download/programa/old-99")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// In range but without an archived document.
	rec = get(t, s, "/download/programa/old-2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadProgramaCatalogUnavailable(t *testing.T) {
	s := newTestServer(t, "", "")
	rec := get(t, s, "/download/programa/123")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDownloadProgramaCurrent(t *testing.T) {
	cat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":             123,
			"nombre_materia": "Química General",
			"cod_carrera":    "PROF",
			"ano_academico":  2025,
			"objetivos":      "<p>Conocer la materia.</p>",
		})
	}))
	defer cat.Close()

	s := newTestServer(t, "", cat.URL)
	rec := get(t, s, "/download/programa/123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Quimica_General_PROF_2025.pdf")
	assert.True(t, len(rec.Body.Bytes()) > 0)
	assert.Equal(t, "%PDF-", string(rec.Body.Bytes()[:5]))
}

func TestDownloadPlan(t *testing.T) {
	payload := []byte("%PDF-1.4 plan")
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer files.Close()

	s := newTestServer(t, files.URL, "")
	rec := get(t, s, "/download/plan/PROF-1998-V1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Plan_Profesorado_en_Matematica_PROF-1998-V1.pdf")
	assert.Equal(t, payload, rec.Body.Bytes())

	rec = get(t, s, "/download/plan/INEXISTENTE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
