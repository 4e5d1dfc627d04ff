// Package dispatch resolves a program id to downloadable document bytes.
// Legacy ids name pre-rendered PDFs in the historical archive and pass
// through untouched; every other id is fetched from the live catalog and
// rendered on the fly.
package dispatch

import (
	"context"
	"fmt"

	"github.com/Ignatius32/programas-crubunco/core"
	"github.com/Ignatius32/programas-crubunco/core/archive"
	"github.com/Ignatius32/programas-crubunco/core/catalog"
	"github.com/Ignatius32/programas-crubunco/core/fetch"
	"github.com/Ignatius32/programas-crubunco/core/output"
)

// Kind classifies a program id by its source.
type Kind int

const (
	// Legacy ids ("old-<n>") resolve against the static archive.
	Legacy Kind = iota
	// Current ids resolve against the live catalog.
	Current
)

// KindOf classifies an id. The prefix check happens exactly once, here.
func KindOf(id string) Kind {
	if archive.IsLegacyID(id) {
		return Legacy
	}
	return Current
}

// Result is a resolved document ready to serve.
type Result struct {
	Data     []byte
	Filename string
}

// Downloader retrieves a remote file verbatim.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Getter retrieves a current program record by id.
type Getter interface {
	Get(ctx context.Context, id string) (*core.Program, error)
}

// Dispatcher routes document requests to the right source. Stateless per
// call; safe for concurrent use.
type Dispatcher struct {
	Archive  *archive.Store
	Catalog  Getter
	Fetcher  Downloader
	Renderer core.Renderer
}

// New wires a Dispatcher with the default fetcher.
func New(store *archive.Store, cat *catalog.Client, renderer core.Renderer) *Dispatcher {
	return &Dispatcher{
		Archive:  store,
		Catalog:  cat,
		Fetcher:  fetch.New(),
		Renderer: renderer,
	}
}

// Program resolves a program id to its document.
func (d *Dispatcher) Program(ctx context.Context, id string) (*Result, error) {
	if KindOf(id) == Legacy {
		return d.legacy(ctx, id)
	}
	return d.current(ctx, id)
}

func (d *Dispatcher) legacy(ctx context.Context, id string) (*Result, error) {
	p, err := d.Archive.Program(id)
	if err != nil {
		return nil, err
	}
	if p.RemoteURL == "" {
		return nil, fmt.Errorf("program %s has no archived document: %w", id, core.ErrNotFound)
	}
	data, err := d.Fetcher.Download(ctx, p.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("retrieving archived program %s: %w", id, err)
	}
	return &Result{
		Data:     data,
		Filename: output.Filename(p.Subject, p.CareerCode, p.AcademicYear),
	}, nil
}

func (d *Dispatcher) current(ctx context.Context, id string) (*Result, error) {
	p, err := d.Catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := d.Renderer.Render(p)
	if err != nil {
		return nil, fmt.Errorf("rendering program %s: %w", id, err)
	}
	return &Result{
		Data:     data,
		Filename: output.Filename(p.Subject, p.CareerCode, p.AcademicYear),
	}, nil
}

// Plan resolves a study-plan version to its archived document.
func (d *Dispatcher) Plan(ctx context.Context, version string) (*Result, error) {
	plan, err := d.Archive.PlanByVersion(version)
	if err != nil {
		return nil, err
	}
	data, err := d.Fetcher.Download(ctx, plan.URL)
	if err != nil {
		return nil, fmt.Errorf("retrieving study plan %s: %w", version, err)
	}
	name := plan.Name
	if name == "" {
		name = "de_estudio"
	}
	return &Result{
		Data:     data,
		Filename: output.Compose("Plan_"+name, version, "", ".pdf"),
	}, nil
}
