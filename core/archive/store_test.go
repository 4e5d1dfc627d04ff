package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ignatius32/programas-crubunco/core"
)

func loadStore(t *testing.T) *Store {
	t.Helper()
	s, err := Load("testdata")
	require.NoError(t, err)
	return s
}

func TestLoadPrograms(t *testing.T) {
	s := loadStore(t)
	programs := s.Programs()
	require.Len(t, programs, 3)

	first := programs[0]
	assert.Equal(t, "old-1", first.ID)
	assert.Equal(t, "Análisis Matemático I", first.Subject)
	assert.Equal(t, "PROF", first.CareerCode)
	assert.Equal(t, "Profesorado en Matemática", first.CareerName)
	assert.Equal(t, "2010", first.AcademicYear)
	assert.Equal(t, "Depto. de Matemática", first.DepartmentSignature)
	assert.Equal(t, OriginLegacy, first.Origin)
}

func TestLoadCareersEngineeringLast(t *testing.T) {
	s := loadStore(t)
	careers := s.Careers()
	require.Len(t, careers, 3)
	assert.Equal(t, "LBIO", careers[0].Code)
	assert.Equal(t, "PROF", careers[1].Code)
	assert.Equal(t, "IELB", careers[2].Code)
}

func TestLoadMissingDir(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, s.Programs())
	assert.Empty(t, s.Careers())
}

func TestCareerName(t *testing.T) {
	s := loadStore(t)
	assert.Equal(t, "Ingeniería Electrónica", s.CareerName("IELB"))
	assert.Equal(t, "XXXX", s.CareerName("XXXX"))
}

func TestProgramLookup(t *testing.T) {
	s := loadStore(t)

	p, err := s.Program("old-2")
	require.NoError(t, err)
	assert.Equal(t, "Física I", p.Subject)

	for _, id := range []string{"old-0", "old-4", "old-x", "42", ""} {
		_, err := s.Program(id)
		assert.ErrorIs(t, err, core.ErrNotFound, "id %q", id)
	}
}

func TestIsLegacyID(t *testing.T) {
	assert.True(t, IsLegacyID("old-1"))
	assert.False(t, IsLegacyID("123"))
}

func TestSearch(t *testing.T) {
	s := loadStore(t)

	assert.Len(t, s.Search(Filter{}), 3)
	assert.Len(t, s.Search(Filter{Subject: "física"}), 1)
	assert.Len(t, s.Search(Filter{AcademicYear: "2010"}), 1)
	assert.Empty(t, s.Search(Filter{AcademicYear: "1999"}))

	// Career matches by partial name or code.
	byName := s.Search(Filter{Career: "electrónica"})
	require.Len(t, byName, 1)
	assert.Equal(t, "Física I", byName[0].Subject)
	assert.Len(t, s.Search(Filter{Career: "prof"}), 1)

	// Free text looks across subject, career code and name, and year.
	assert.Len(t, s.Search(Filter{FreeText: "biología"}), 1)
	assert.Len(t, s.Search(Filter{FreeText: "2012"}), 1)
	assert.Empty(t, s.Search(Filter{FreeText: "astronomía"}))
}

func TestByCareerYear(t *testing.T) {
	s := loadStore(t)

	assert.Len(t, s.ByCareerYear("IELB", "", ""), 1)
	assert.Len(t, s.ByCareerYear("Ingeniería Electrónica", "", ""), 1)
	assert.Len(t, s.ByCareerYear("IELB", "2005", "2012"), 1)
	assert.Empty(t, s.ByCareerYear("IELB", "1998", ""))
	assert.Empty(t, s.ByCareerYear("NADA", "", ""))
}

func TestYears(t *testing.T) {
	s := loadStore(t)

	assert.Equal(t, []string{"2010"}, s.Years(YearAcademic, "PROF"))
	assert.Equal(t, []string{"1998"}, s.Years(YearPlan, "PROF"))
	assert.Empty(t, s.Years(YearAcademic, "NADA"))
}

func TestUniqueYearsOrdering(t *testing.T) {
	programs := []*core.Program{
		{CareerCode: "X", AcademicYear: "2019"},
		{CareerCode: "X", AcademicYear: "2024"},
		{CareerCode: "X", AcademicYear: "2019"},
		{CareerCode: "Y", AcademicYear: "2030"},
	}
	assert.Equal(t, []string{"2024", "2019"}, UniqueYears(programs, YearAcademic, "X"))
}

func TestParseYearType(t *testing.T) {
	yt, err := ParseYearType("academico")
	require.NoError(t, err)
	assert.Equal(t, YearAcademic, yt)

	yt, err = ParseYearType("cursada")
	require.NoError(t, err)
	assert.Equal(t, YearPlan, yt)

	_, err = ParseYearType("fiscal")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSearchPlans(t *testing.T) {
	s := loadStore(t)

	// The plan without a URL never loads.
	assert.Len(t, s.SearchPlans("", ""), 2)
	assert.Len(t, s.SearchPlans("PROF", ""), 1)
	assert.Len(t, s.SearchPlans("", "Sí"), 1)
	assert.Empty(t, s.SearchPlans("PROF", "Sí"))
}

func TestPlanByVersion(t *testing.T) {
	s := loadStore(t)

	plan, err := s.PlanByVersion("IELB-2005-V2")
	require.NoError(t, err)
	assert.Equal(t, "https://archivo.example/plan-ielb.pdf", plan.URL)

	_, err = s.PlanByVersion("LBIO-2001-V1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPlanOptions(t *testing.T) {
	s := loadStore(t)
	careers, states := s.PlanOptions()

	assert.Equal(t, []Option{
		{Code: "IELB", Name: "Ingeniería Electrónica"},
		{Code: "PROF", Name: "Profesorado en Matemática"},
	}, careers)
	assert.Equal(t, []string{"No", "Sí"}, states)
}

func TestProgramOptions(t *testing.T) {
	s := loadStore(t)
	careers, years := s.ProgramOptions()

	assert.Len(t, careers, 3)
	assert.True(t, careers["IELB"])
	assert.True(t, years["2010"])
	assert.True(t, years["2012"])
}
