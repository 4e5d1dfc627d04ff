// Package archive holds the static legacy datasets: historical program
// records, the career roster, and the study-plan catalog. Everything loads
// once from JSON files at startup and is immutable afterwards, so reads
// need no locking.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Ignatius32/programas-crubunco/core"
)

// OriginLegacy tags records loaded from the historical archive.
const OriginLegacy = "Archivo histórico"

// legacyIDPrefix marks archive record ids, e.g. "old-12".
const legacyIDPrefix = "old-"

// YearType selects which year field a year listing draws from.
type YearType string

const (
	// YearAcademic lists the years a program was taught.
	YearAcademic YearType = "academico"
	// YearPlan lists the curriculum-plan years.
	YearPlan YearType = "cursada"
)

// ParseYearType validates a year-type path segment.
func ParseYearType(s string) (YearType, error) {
	switch YearType(s) {
	case YearAcademic, YearPlan:
		return YearType(s), nil
	default:
		return "", fmt.Errorf("year type %q: %w", s, core.ErrInvalidInput)
	}
}

// Option is a code/name pair for a dropdown listing.
type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Store is the loaded archive.
type Store struct {
	programs []*core.Program
	careers  []core.Career
	plans    []core.StudyPlan

	careerNames map[string]string
}

// Load reads the three datasets from dataDir. A missing file leaves its
// dataset empty; a file that exists but cannot be parsed is an error.
func Load(dataDir string) (*Store, error) {
	s := &Store{careerNames: make(map[string]string)}

	if err := loadJSON(filepath.Join(dataDir, "carreras.json"), &s.careers); err != nil {
		return nil, err
	}
	// Engineering careers sort after everything else.
	sort.SliceStable(s.careers, func(i, j int) bool {
		ei := strings.HasPrefix(s.careers[i].Code, "I")
		ej := strings.HasPrefix(s.careers[j].Code, "I")
		if ei != ej {
			return !ei
		}
		return s.careers[i].Code < s.careers[j].Code
	})
	for _, c := range s.careers {
		s.careerNames[c.Code] = c.Name
	}

	var rawPrograms []map[string]any
	if err := loadJSON(filepath.Join(dataDir, "programas_viejos.json"), &rawPrograms); err != nil {
		return nil, err
	}
	for i, raw := range rawPrograms {
		p, err := core.ProgramFromRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		p.ID = fmt.Sprintf("%s%d", legacyIDPrefix, i+1)
		p.Origin = OriginLegacy
		if p.CareerName == "" {
			p.CareerName = s.CareerName(p.CareerCode)
		}
		s.programs = append(s.programs, p)
	}

	var plans []core.StudyPlan
	if err := loadJSON(filepath.Join(dataDir, "planes_estudio.json"), &plans); err != nil {
		return nil, err
	}
	// Only plans with a document URL are servable.
	for _, plan := range plans {
		if plan.URL != "" {
			s.plans = append(s.plans, plan)
		}
	}

	return s, nil
}

func loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// CareerName resolves a career code to its full name, falling back to the
// code itself.
func (s *Store) CareerName(code string) string {
	if name, ok := s.careerNames[code]; ok {
		return name
	}
	return code
}

// Careers returns the career roster, engineering codes last.
func (s *Store) Careers() []core.Career {
	return s.careers
}

// Programs returns all legacy records in archive order.
func (s *Store) Programs() []*core.Program {
	return s.programs
}

// Program looks up a legacy record by its "old-<n>" id.
func (s *Store) Program(id string) (*core.Program, error) {
	num, ok := strings.CutPrefix(id, legacyIDPrefix)
	if !ok {
		return nil, fmt.Errorf("id %q is not a legacy id: %w", id, core.ErrNotFound)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > len(s.programs) {
		return nil, fmt.Errorf("legacy program %q: %w", id, core.ErrNotFound)
	}
	return s.programs[n-1], nil
}

// IsLegacyID reports whether id names an archive record.
func IsLegacyID(id string) bool {
	return strings.HasPrefix(id, legacyIDPrefix)
}

// Filter narrows a program search. Zero-value fields match everything.
type Filter struct {
	Subject      string
	Career       string // code or full name, matched loosely
	AcademicYear string
	FreeText     string
}

// Search returns the legacy records matching the filter.
func (s *Store) Search(f Filter) []*core.Program {
	var results []*core.Program
	for _, p := range s.programs {
		if s.matches(p, f) {
			results = append(results, p)
		}
	}
	return results
}

func (s *Store) matches(p *core.Program, f Filter) bool {
	if f.Subject != "" && !containsFold(p.Subject, f.Subject) {
		return false
	}
	if f.Career != "" && !s.matchesCareer(p, f.Career) {
		return false
	}
	if f.AcademicYear != "" && f.AcademicYear != p.AcademicYear {
		return false
	}
	if f.FreeText != "" {
		careerName := s.CareerName(p.CareerCode)
		found := false
		for _, field := range []string{p.Subject, p.CareerCode, careerName, p.AcademicYear} {
			if containsFold(field, f.FreeText) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchesCareer accepts a partial code or name and checks it against the
// roster, then the roster entry against the record.
func (s *Store) matchesCareer(p *core.Program, career string) bool {
	for _, c := range s.careers {
		if !containsFold(c.Code, career) && !containsFold(c.Name, career) {
			continue
		}
		if c.Code == p.CareerCode || c.Name == p.CareerName {
			return true
		}
	}
	return false
}

// ByCareerYear returns the legacy records for a career (code or exact name),
// optionally narrowed by plan year and academic year.
func (s *Store) ByCareerYear(career, planYear, academicYear string) []*core.Program {
	var results []*core.Program
	for _, p := range s.programs {
		if p.CareerName != career && p.CareerCode != career {
			continue
		}
		if planYear != "" && p.PlanYear != planYear {
			continue
		}
		if academicYear != "" && p.AcademicYear != academicYear {
			continue
		}
		results = append(results, p)
	}
	return results
}

// Years lists the distinct years of the given type for a career code,
// most recent first.
func (s *Store) Years(yt YearType, careerCode string) []string {
	return UniqueYears(s.programs, yt, careerCode)
}

// UniqueYears extracts the distinct years of the given type from any record
// list, most recent first. Shared with the live-catalog merge path.
func UniqueYears(programs []*core.Program, yt YearType, careerCode string) []string {
	seen := make(map[string]bool)
	for _, p := range programs {
		if p.CareerCode != careerCode {
			continue
		}
		year := p.AcademicYear
		if yt == YearPlan {
			year = p.PlanYear
		}
		if year != "" {
			seen[year] = true
		}
	}
	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// SearchPlans returns the study plans matching the career code and the
// vigencia state, both optional.
func (s *Store) SearchPlans(career, current string) []core.StudyPlan {
	var results []core.StudyPlan
	for _, plan := range s.plans {
		if career != "" && plan.CareerCode != career {
			continue
		}
		if current != "" && plan.Current != current {
			continue
		}
		results = append(results, plan)
	}
	return results
}

// PlanByVersion looks up a study plan by its exact SIU version string.
func (s *Store) PlanByVersion(version string) (*core.StudyPlan, error) {
	for i := range s.plans {
		if s.plans[i].VersionSIU == version {
			return &s.plans[i], nil
		}
	}
	return nil, fmt.Errorf("study plan %q: %w", version, core.ErrNotFound)
}

// PlanOptions returns the dropdown options derivable from the plan catalog.
func (s *Store) PlanOptions() (careers []Option, states []string) {
	careerSet := make(map[string]bool)
	stateSet := make(map[string]bool)
	for _, plan := range s.plans {
		if plan.CareerCode != "" {
			careerSet[plan.CareerCode] = true
		}
		if plan.Current != "" {
			stateSet[plan.Current] = true
		}
	}
	careers = s.careerOptions(careerSet)
	states = sortedKeys(stateSet)
	return careers, states
}

// ProgramOptions returns the career and academic-year options present in the
// legacy records.
func (s *Store) ProgramOptions() (careers map[string]bool, years map[string]bool) {
	careers = make(map[string]bool)
	years = make(map[string]bool)
	for _, p := range s.programs {
		if p.CareerCode != "" {
			careers[p.CareerCode] = true
		}
		if p.AcademicYear != "" {
			years[p.AcademicYear] = true
		}
	}
	return careers, years
}

// CareerOptions resolves a code set into sorted code/name options.
func (s *Store) CareerOptions(codes map[string]bool) []Option {
	return s.careerOptions(codes)
}

func (s *Store) careerOptions(codes map[string]bool) []Option {
	options := make([]Option, 0, len(codes))
	for _, code := range sortedKeys(codes) {
		options = append(options, Option{Code: code, Name: s.CareerName(code)})
	}
	return options
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
