// Package catalog implements the client for the live academic catalog API.
// The API serves current-year program records over HTTP with Digest auth;
// responses use a slightly older field naming that is folded into the local
// schema before anything downstream sees a record.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/icholy/digest"

	"github.com/Ignatius32/programas-crubunco/core"
)

const requestTimeout = 5 * time.Second

// OriginCurrent tags records coming from the live catalog.
const OriginCurrent = "API actual"

// Config holds the catalog connection settings.
type Config struct {
	BaseURL  string
	Username string
	Password string
}

// Client queries the remote catalog. The zero value is an unconfigured
// client whose calls fail with ErrUpstreamUnavailable.
type Client struct {
	baseURL string
	http    *http.Client

	// CareerName resolves a career code to its full name for records the
	// catalog returns without one. Optional.
	CareerName func(code string) string
}

// New creates a Client from config. Every request carries the fixed timeout;
// there are no retries and no response caching.
func New(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &digest.Transport{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		},
	}
}

// Configured reports whether a base URL was set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// Query filters a catalog search. Zero-value fields are omitted.
type Query struct {
	Subject      string
	CareerCode   string
	AcademicYear string
	FreeText     string
}

// Get retrieves a single program record by catalog id.
func (c *Client) Get(ctx context.Context, id string) (*core.Program, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("catalog not configured: %w", core.ErrUpstreamUnavailable)
	}

	var raw map[string]any
	status, err := c.getJSON(ctx, c.baseURL+"/rest/programas/"+url.PathEscape(id), nil, &raw)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("program %s: %w", id, core.ErrNotFound)
	case status != http.StatusOK:
		return nil, fmt.Errorf("catalog returned status %d: %w", status, core.ErrUpstreamUnavailable)
	}

	p, err := c.toProgram(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding program %s: %w", id, err)
	}
	return p, nil
}

// Search lists the program records matching the query.
func (c *Client) Search(ctx context.Context, q Query) ([]*core.Program, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("catalog not configured: %w", core.ErrUpstreamUnavailable)
	}

	params := url.Values{}
	if q.Subject != "" {
		params.Set("nombre_materia", q.Subject)
	}
	if q.CareerCode != "" {
		params.Set("cod_carrera", q.CareerCode)
	}
	if q.AcademicYear != "" {
		params.Set("ano_academico", q.AcademicYear)
	}
	if q.FreeText != "" {
		params.Set("query", q.FreeText)
	}

	var raws []map[string]any
	status, err := c.getJSON(ctx, c.baseURL+"/rest/programas", params, &raws)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d: %w", status, core.ErrUpstreamUnavailable)
	}

	programs := make([]*core.Program, 0, len(raws))
	for _, raw := range raws {
		p, err := c.toProgram(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding search results: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, nil
}

// getJSON performs the GET and decodes the body when the status warrants it.
// Transport failures, including the timeout, map to ErrUpstreamUnavailable.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) (int, error) {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("catalog request failed: %w: %v", core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding catalog response: %w: %v", core.ErrUpstreamUnavailable, err)
	}
	return resp.StatusCode, nil
}

// toProgram normalizes a raw catalog record and fills the derived fields:
// career name when the catalog omitted it, and the origin tag.
func (c *Client) toProgram(raw map[string]any) (*core.Program, error) {
	p, err := core.ProgramFromRaw(raw)
	if err != nil {
		return nil, err
	}
	if p.CareerName == "" && c.CareerName != nil {
		p.CareerName = c.CareerName(p.CareerCode)
	}
	p.Origin = OriginCurrent
	return p, nil
}
