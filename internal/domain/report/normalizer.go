package report

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FallbackNarrative is persisted when the annotator call fails or times out.
// The upload itself still succeeds.
const FallbackNarrative = "AI analysis unavailable"

// The annotator has shipped two generations of its response schema and is not
// contract-versioned, so both key sets are accepted for the same semantic
// field: name/testName, normalRange/referenceRange, overall/summary. The raw
// types below carry every alias; Normalize collapses them into the canonical
// shape so nothing downstream ever sees the aliasing.

// FlexValue decodes a JSON string or number into a string. The annotator
// emits values both ways ("11.9 g/dL" and 11.9).
type FlexValue string

func (v *FlexValue) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*v = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FlexValue(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FlexValue(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

type RawTestResult struct {
	Name           string    `json:"name"`
	TestName       string    `json:"testName"`
	Value          FlexValue `json:"value"`
	Unit           string    `json:"unit"`
	NormalRange    string    `json:"normalRange"`
	ReferenceRange string    `json:"referenceRange"`
	Status         string    `json:"status"`
	Interpretation string    `json:"interpretation"`
}

type RawSummary struct {
	Severity        string   `json:"severity"`
	Overall         string   `json:"overall"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	KeyFindings     []string `json:"keyFindings"`
}

type RawAnnotation struct {
	AISummary   RawSummary      `json:"ai_summary"`
	TestResults []RawTestResult `json:"testResults"`
	EmbeddingRef string         `json:"embedding_path"`
}

// firstNonEmpty picks the populated alias. A value present under only one key
// is never dropped.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// NormalizeSummary maps a raw annotator summary onto the canonical AISummary.
// Unknown or missing severity degrades to low rather than failing.
func NormalizeSummary(raw RawSummary) AISummary {
	sev := Severity(strings.ToLower(strings.TrimSpace(raw.Severity)))
	if !sev.IsValid() {
		sev = SeverityLow
	}
	return AISummary{
		Severity:        sev,
		Narrative:       firstNonEmpty(raw.Overall, raw.Summary),
		Recommendations: raw.Recommendations,
		KeyFindings:     raw.KeyFindings,
	}
}

// NormalizeTestResult maps one raw test result onto the canonical TestResult.
// Unknown or missing status defaults to normal.
func NormalizeTestResult(raw RawTestResult) TestResult {
	status := ResultStatus(strings.ToLower(strings.TrimSpace(raw.Status)))
	if !status.IsValid() {
		status = ResultNormal
	}
	return TestResult{
		Name:           firstNonEmpty(raw.Name, raw.TestName),
		Value:          string(raw.Value),
		Unit:           raw.Unit,
		ReferenceRange: firstNonEmpty(raw.NormalRange, raw.ReferenceRange),
		Status:         status,
		Interpretation: raw.Interpretation,
	}
}

// Normalize converts a full raw annotation into canonical summary and results.
func Normalize(raw RawAnnotation) (AISummary, []TestResult) {
	results := make([]TestResult, 0, len(raw.TestResults))
	for _, t := range raw.TestResults {
		results = append(results, NormalizeTestResult(t))
	}
	return NormalizeSummary(raw.AISummary), results
}

// FallbackSummary is the substitute annotation used when the annotator errors
// or times out. Ingestion success is decoupled from annotation success.
func FallbackSummary() AISummary {
	return AISummary{
		Severity:  SeverityLow,
		Narrative: FallbackNarrative,
	}
}
