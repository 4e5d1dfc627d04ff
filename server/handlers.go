package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Ignatius32/programas-crubunco/core"
	"github.com/Ignatius32/programas-crubunco/core/archive"
	"github.com/Ignatius32/programas-crubunco/core/catalog"
)

// searchPrograms merges archive and live-catalog results. A catalog failure
// is logged and skipped so the archive keeps answering on its own.
func (s *Server) searchPrograms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	subject := strings.TrimSpace(q.Get("nombre_materia"))
	career := strings.TrimSpace(q.Get("nombre_carrera"))
	year := strings.TrimSpace(q.Get("ano_academico"))
	free := strings.TrimSpace(q.Get("query"))

	results := s.store.Search(archive.Filter{
		Subject:      subject,
		Career:       career,
		AcademicYear: year,
		FreeText:     free,
	})

	if s.catalog.Configured() {
		remote, err := s.catalog.Search(r.Context(), catalog.Query{
			Subject:      subject,
			CareerCode:   career,
			AcademicYear: year,
			FreeText:     free,
		})
		if err != nil {
			s.log.Warn("catalog search failed", "err", err)
		} else {
			results = append(results, remote...)
		}
	}

	sortPrograms(results)
	respondJSON(w, http.StatusOK, nonNil(results))
}

// programsByCareerYear lists the programs of one career, optionally narrowed
// by plan year and academic year.
func (s *Server) programsByCareerYear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	career := strings.TrimSpace(q.Get("carrera"))
	planYear := strings.TrimSpace(q.Get("plan_year"))
	academicYear := strings.TrimSpace(q.Get("academic_year"))

	if career == "" {
		respondError(w, http.StatusBadRequest, "Carrera parameter is required")
		return
	}

	results := s.store.ByCareerYear(career, planYear, academicYear)

	if s.catalog.Configured() {
		remote, err := s.catalog.Search(r.Context(), catalog.Query{
			CareerCode:   career,
			AcademicYear: academicYear,
		})
		if err != nil {
			s.log.Warn("catalog search failed", "err", err)
		} else {
			// The catalog cannot filter by plan year; do it here.
			for _, p := range remote {
				if planYear != "" && p.PlanYear != planYear {
					continue
				}
				results = append(results, p)
			}
		}
	}

	sortPrograms(results)
	respondJSON(w, http.StatusOK, nonNil(results))
}

// availableYears returns the distinct years of a type for a career, newest
// first, drawing from both sources.
func (s *Server) availableYears(w http.ResponseWriter, r *http.Request) {
	yt, err := archive.ParseYearType(chi.URLParam(r, "yearType"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid year type")
		return
	}
	career := strings.TrimSpace(r.URL.Query().Get("carrera"))
	if career == "" {
		respondError(w, http.StatusBadRequest, "Carrera parameter is required")
		return
	}

	seen := make(map[string]bool)
	for _, y := range s.store.Years(yt, career) {
		seen[y] = true
	}

	if s.catalog.Configured() {
		remote, err := s.catalog.Search(r.Context(), catalog.Query{CareerCode: career})
		if err != nil {
			s.log.Warn("catalog search failed", "err", err)
		} else {
			for _, y := range archive.UniqueYears(remote, yt, career) {
				seen[y] = true
			}
		}
	}

	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	respondJSON(w, http.StatusOK, years)
}

// searchPlanes queries the study-plan catalog, archive only.
func (s *Server) searchPlanes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	plans := s.store.SearchPlans(
		strings.TrimSpace(q.Get("carrera")),
		strings.TrimSpace(q.Get("vigente")),
	)
	if plans == nil {
		plans = []core.StudyPlan{}
	}
	respondJSON(w, http.StatusOK, plans)
}

// planesOptions returns the dropdown options for the study-plan search form.
func (s *Server) planesOptions(w http.ResponseWriter, r *http.Request) {
	careers, states := s.store.PlanOptions()
	respondJSON(w, http.StatusOK, map[string]any{
		"careers":         careers,
		"vigencia_states": states,
	})
}

// searchOptions returns the career and year options for the program search
// form, merged across sources.
func (s *Server) searchOptions(w http.ResponseWriter, r *http.Request) {
	careers, years := s.store.ProgramOptions()

	if s.catalog.Configured() {
		remote, err := s.catalog.Search(r.Context(), catalog.Query{})
		if err != nil {
			s.log.Warn("catalog search failed", "err", err)
		} else {
			for _, p := range remote {
				if p.CareerCode != "" {
					careers[p.CareerCode] = true
				}
				if p.AcademicYear != "" {
					years[p.AcademicYear] = true
				}
			}
		}
	}

	yearList := make([]string, 0, len(years))
	for y := range years {
		yearList = append(yearList, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(yearList)))

	respondJSON(w, http.StatusOK, map[string]any{
		"careers":        s.store.CareerOptions(careers),
		"academic_years": yearList,
	})
}

// downloadPrograma streams a program document, legacy or freshly rendered.
func (s *Server) downloadPrograma(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "programID")
	res, err := s.dispatcher.Program(r.Context(), id)
	if err != nil {
		s.log.Warn("program download failed", "id", id, "err", err)
		respondError(w, errorStatus(err), "no se pudo obtener el programa")
		return
	}
	serveDocument(w, res.Filename, res.Data)
}

// downloadPlan streams a study-plan document. The version segment may
// contain slashes, hence the wildcard route.
func (s *Server) downloadPlan(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "*")
	res, err := s.dispatcher.Plan(r.Context(), version)
	if err != nil {
		s.log.Warn("plan download failed", "version", version, "err", err)
		respondError(w, errorStatus(err), "no se pudo obtener el plan de estudios")
		return
	}
	serveDocument(w, res.Filename, res.Data)
}

func serveDocument(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// sortPrograms orders merged results by subject, then academic year, then
// plan year.
func sortPrograms(programs []*core.Program) {
	sort.SliceStable(programs, func(i, j int) bool {
		if programs[i].Subject != programs[j].Subject {
			return programs[i].Subject < programs[j].Subject
		}
		if programs[i].AcademicYear != programs[j].AcademicYear {
			return programs[i].AcademicYear < programs[j].AcademicYear
		}
		return programs[i].PlanYear < programs[j].PlanYear
	})
}

func nonNil(programs []*core.Program) []*core.Program {
	if programs == nil {
		return []*core.Program{}
	}
	return programs
}
