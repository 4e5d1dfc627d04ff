// Package core defines the shared record types and pipeline interfaces for
// the programas service. Each stage (interpret, render, retrieve) works
// against these types rather than raw JSON maps.
package core

// Program is a single course syllabus record for a given academic year.
// The JSON field names follow the catalog API schema; both record sources
// (the static legacy archive and the remote catalog) are normalized into
// this shape before any rendering happens.
type Program struct {
	ID           string `json:"id_programa"`
	Subject      string `json:"nombre_materia"`
	CareerCode   string `json:"cod_carrera"`
	CareerName   string `json:"nombre_carrera,omitempty"`
	AcademicYear string `json:"ano_academico"`
	PlanYear     string `json:"ano_plan,omitempty"`
	Origin       string `json:"origen,omitempty"`

	Department  string `json:"depto,omitempty"`
	GuaraniCode string `json:"cod_guarani,omitempty"`
	Elective    string `json:"optativa,omitempty"`
	Area        string `json:"area,omitempty"`
	Orientation string `json:"orientacion,omitempty"`
	PlanRules   string `json:"plan_ordenanzas,omitempty"`
	Track       string `json:"trayecto,omitempty"`
	Term        string `json:"periodo_dictado,omitempty"`

	WeeklyHours string `json:"horas_semanales,omitempty"`
	TotalHours  string `json:"horas_totales,omitempty"`

	LeadLastName  string `json:"apellido_resp,omitempty"`
	LeadFirstName string `json:"nombre_resp,omitempty"`
	LeadPosition  string `json:"cargo_resp,omitempty"`
	TeachingTeam  string `json:"equipo_catedra,omitempty"`

	PrereqToEnroll string `json:"correlativas_para_cursar,omitempty"`
	PrereqToPass   string `json:"correlativas_para_aprobar,omitempty"`

	// Long-form sections. Each value is either plain text or an HTML
	// fragment; the content interpreter decides which at render time.
	Rationale        string `json:"fundamentacion,omitempty"`
	Objectives       string `json:"objetivos,omitempty"`
	MinContents      string `json:"contenidos_minimos,omitempty"`
	Syllabus         string `json:"programa_analitico,omitempty"`
	Bibliography     string `json:"bibliografia,omitempty"`
	Methodology      string `json:"propuesta_metodologica,omitempty"`
	Evaluation       string `json:"evaluacion_acreditacion,omitempty"`
	TheoryHours      string `json:"horas_teoricas,omitempty"`
	PracticeHours    string `json:"horas_practicas,omitempty"`
	MixedHours       string `json:"horas_teoricopracticas,omitempty"`
	HourDistribution string `json:"distribucion_horaria,omitempty"`
	Schedule         string `json:"cronograma_tentativo,omitempty"`

	// Signatures rendered on every page footer.
	InstructorSignature string `json:"firma_doc,omitempty"`
	DepartmentSignature string `json:"firma_depto,omitempty"`
	CommitteeSignature  string `json:"firma_sac,omitempty"`

	// RemoteURL is set only for legacy archive records, which exist as
	// pre-rendered PDFs at a remote location.
	RemoteURL string `json:"url_programa,omitempty"`
}

// Career is an academic major/program track identified by a short code.
type Career struct {
	Code string `json:"carrera"`
	Name string `json:"nombre"`
}

// StudyPlan is a curriculum document, available as a pre-rendered PDF.
type StudyPlan struct {
	CareerCode string `json:"carrera"`
	Name       string `json:"nombre"`
	VersionSIU string `json:"plan_version_SIU"`
	URL        string `json:"url_planEstudio"`
	Current    string `json:"vigente,omitempty"`
}

// Renderer converts a program record into a final output format.
type Renderer interface {
	Render(p *Program) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".pdf").
	Extension() string
}
