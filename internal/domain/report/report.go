package report

import (
	"time"

	"github.com/google/uuid"
)

// Severity is the annotator's overall assessment of a report.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// UIStatus is the tri-state vocabulary every dashboard counts reports by.
type UIStatus string

const (
	StatusNormal   UIStatus = "normal"
	StatusAbnormal UIStatus = "abnormal"
	StatusCritical UIStatus = "critical"
)

// severityStatus is the single source of truth for the severity → UI status
// mapping. Every call site that aggregates report outcomes goes through
// MapSeverity; none reimplements the mapping.
var severityStatus = map[Severity]UIStatus{
	SeverityLow:    StatusNormal,
	SeverityMedium: StatusAbnormal,
	SeverityHigh:   StatusCritical,
}

// MapSeverity converts an annotator severity into the dashboard status
// vocabulary. Unrecognized severities degrade to normal, matching the
// liberal-acceptance policy applied to all annotator output.
func MapSeverity(s Severity) UIStatus {
	if st, ok := severityStatus[s]; ok {
		return st
	}
	return StatusNormal
}

// ResultStatus is the per-test flag emitted by the annotator. The set is
// enumerated but not contract-versioned, so parsing is liberal.
type ResultStatus string

const (
	ResultLow      ResultStatus = "low"
	ResultNormal   ResultStatus = "normal"
	ResultHigh     ResultStatus = "high"
	ResultAbnormal ResultStatus = "abnormal"
	ResultCritical ResultStatus = "critical"
)

func (s ResultStatus) IsValid() bool {
	switch s {
	case ResultLow, ResultNormal, ResultHigh, ResultAbnormal, ResultCritical:
		return true
	}
	return false
}

// TestResult is one measurement extracted from a lab report, in canonical
// form: presenting code only ever reads these field names, never the
// annotator's aliases.
type TestResult struct {
	Name           string       `json:"name"`
	Value          string       `json:"value"` // may embed a unit, e.g. "11.9 g/dL"
	Unit           string       `json:"unit"`
	ReferenceRange string       `json:"reference_range"`
	Status         ResultStatus `json:"status"`
	Interpretation string       `json:"interpretation"`
}

// AISummary is the annotator's narrative assessment of a whole report.
type AISummary struct {
	Severity        Severity `json:"severity"`
	Narrative       string   `json:"narrative"`
	Recommendations []string `json:"recommendations"`
	KeyFindings     []string `json:"key_findings"`
}

// UIStatus returns the dashboard status derived from the summary severity.
func (s AISummary) UIStatus() UIStatus {
	return MapSeverity(s.Severity)
}

// Report is one uploaded lab document after normalization.
// FileID is the client-facing identifier and is immutable once set, as is
// UploadedAt. UploadedAt is not guaranteed to increase with insertion order
// (client clock skew), so history queries must sort by it explicitly.
type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	FileID    string `gorm:"column:file_id;type:varchar(64);uniqueIndex;not null"`
	UserEmail string `gorm:"column:user_email;type:varchar(255);not null;index"`
	FileName  string `gorm:"column:file_name;type:varchar(255);not null"`

	// StorageRef is owned by the storage collaborator; this service only
	// carries it through.
	StorageRef    string `gorm:"column:storage_ref;type:text;not null"`
	EmbeddingRef  string `gorm:"column:embedding_ref;type:text"`
	DoctorComment string `gorm:"column:doctor_comment;type:text"`

	AISummary   AISummary    `gorm:"column:ai_summary;serializer:json"`
	TestResults []TestResult `gorm:"column:test_results;serializer:json"`

	UploadedAt time.Time `gorm:"column:uploaded_at;not null;index"`
}

func (Report) TableName() string {
	return "clinical.reports"
}

// AbnormalTestCount reports how many test results are flagged anything other
// than normal.
func (r *Report) AbnormalTestCount() int {
	n := 0
	for _, t := range r.TestResults {
		if t.Status != ResultNormal {
			n++
		}
	}
	return n
}

// Summary is the list-view projection of a report.
type Summary struct {
	FileID     string    `json:"file_id"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	Severity   Severity  `json:"severity"`
	Status     UIStatus  `json:"status"`
}

func (r *Report) Summarize() Summary {
	return Summary{
		FileID:     r.FileID,
		FileName:   r.FileName,
		UploadedAt: r.UploadedAt,
		Severity:   r.AISummary.Severity,
		Status:     r.AISummary.UIStatus(),
	}
}

// StatusCounts is the severity-derived aggregate consumed by the admin and
// doctor dashboards.
type StatusCounts struct {
	Normal   int `json:"normal"`
	Abnormal int `json:"abnormal"`
	Critical int `json:"critical"`
}

// Add tallies one report into the counts via the shared mapping.
func (c *StatusCounts) Add(s Severity) {
	switch MapSeverity(s) {
	case StatusNormal:
		c.Normal++
	case StatusAbnormal:
		c.Abnormal++
	case StatusCritical:
		c.Critical++
	}
}

type IngestCommand struct {
	UserEmail  string
	FileName   string
	StorageRef string
}
