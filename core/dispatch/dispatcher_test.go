package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ignatius32/programas-crubunco/core"
	"github.com/Ignatius32/programas-crubunco/core/archive"
	"github.com/Ignatius32/programas-crubunco/core/fetch"
)

type stubGetter struct {
	program *core.Program
	err     error
}

func (s *stubGetter) Get(ctx context.Context, id string) (*core.Program, error) {
	return s.program, s.err
}

type stubRenderer struct{}

func (stubRenderer) Render(p *core.Program) ([]byte, error) { return []byte("%PDF-stub"), nil }
func (stubRenderer) Extension() string                      { return ".pdf" }

func TestKindOf(t *testing.T) {
	assert.Equal(t, Legacy, KindOf("old-3"))
	assert.Equal(t, Current, KindOf("123"))
	assert.Equal(t, Current, KindOf(""))
}

func TestLegacyPassthrough(t *testing.T) {
	payload := []byte("%PDF-1.4 archivado")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer ts.Close()

	store := storeWithProgram(t, &core.Program{
		Subject:      "Análisis Matemático",
		CareerCode:   "IELB",
		AcademicYear: "2024",
		RemoteURL:    ts.URL,
	})

	d := &Dispatcher{Archive: store, Fetcher: fetch.New(), Renderer: stubRenderer{}}
	res, err := d.Program(context.Background(), "old-1")
	require.NoError(t, err)
	assert.Equal(t, payload, res.Data)
	assert.Equal(t, "Analisis_Matematico_IELB_2024.pdf", res.Filename)
}

func TestLegacyMissingURL(t *testing.T) {
	store := storeWithProgram(t, &core.Program{Subject: "Sin documento"})
	d := &Dispatcher{Archive: store, Fetcher: fetch.New()}

	_, err := d.Program(context.Background(), "old-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLegacyOutOfRange(t *testing.T) {
	store := storeWithProgram(t, &core.Program{Subject: "Única"})
	d := &Dispatcher{Archive: store, Fetcher: fetch.New()}

	_, err := d.Program(context.Background(), "old-9")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCurrentRendered(t *testing.T) {
	d := &Dispatcher{
		Catalog: &stubGetter{program: &core.Program{
			Subject:      "Química Orgánica",
			CareerCode:   "LBIO",
			AcademicYear: "2025",
		}},
		Renderer: stubRenderer{},
	}

	res, err := d.Program(context.Background(), "77")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), res.Data)
	assert.Equal(t, "Quimica_Organica_LBIO_2025.pdf", res.Filename)
}

func TestCurrentCatalogError(t *testing.T) {
	d := &Dispatcher{
		Catalog:  &stubGetter{err: core.ErrUpstreamUnavailable},
		Renderer: stubRenderer{},
	}
	_, err := d.Program(context.Background(), "77")
	assert.ErrorIs(t, err, core.ErrUpstreamUnavailable)
}

// storeWithProgram builds a one-record archive from a temp data dir.
func storeWithProgram(t *testing.T, p *core.Program) *archive.Store {
	t.Helper()
	dir := t.TempDir()
	writeJSON(t, dir+"/programas_viejos.json", []map[string]any{programToRaw(p)})
	store, err := archive.Load(dir)
	require.NoError(t, err)
	return store
}

func programToRaw(p *core.Program) map[string]any {
	raw := map[string]any{}
	if p.Subject != "" {
		raw["nombre_materia"] = p.Subject
	}
	if p.CareerCode != "" {
		raw["cod_carrera"] = p.CareerCode
	}
	if p.AcademicYear != "" {
		raw["ano_academico"] = p.AcademicYear
	}
	if p.RemoteURL != "" {
		raw["url_programa"] = p.RemoteURL
	}
	return raw
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
