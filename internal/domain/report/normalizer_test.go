package report

import (
	"encoding/json"
	"testing"
)

func TestNormalizeTestResultAliasPairs(t *testing.T) {
	oldGen := RawTestResult{
		Name:        "Hemoglobin",
		Value:       "11.9 g/dL",
		Unit:        "g/dL",
		NormalRange: "13.5-17.5",
		Status:      "low",
	}
	newGen := RawTestResult{
		TestName:       "Hemoglobin",
		Value:          "11.9 g/dL",
		Unit:           "g/dL",
		ReferenceRange: "13.5-17.5",
		Status:         "low",
	}

	a := NormalizeTestResult(oldGen)
	b := NormalizeTestResult(newGen)

	if a.Name != b.Name || a.ReferenceRange != b.ReferenceRange {
		t.Errorf("alias generations normalized differently: %+v vs %+v", a, b)
	}
	if a.Name != "Hemoglobin" {
		t.Errorf("name = %q, want Hemoglobin", a.Name)
	}
	if a.ReferenceRange != "13.5-17.5" {
		t.Errorf("reference range = %q, want 13.5-17.5", a.ReferenceRange)
	}
	if a.Status != ResultLow {
		t.Errorf("status = %q, want low", a.Status)
	}
}

func TestNormalizeTestResultPrefersFirstAlias(t *testing.T) {
	raw := RawTestResult{
		Name:           "Hemoglobin",
		TestName:       "Hgb (legacy)",
		NormalRange:    "13.5-17.5",
		ReferenceRange: "ignored",
		Value:          "11.9",
	}
	got := NormalizeTestResult(raw)
	if got.Name != "Hemoglobin" {
		t.Errorf("name = %q, want the primary key to win", got.Name)
	}
	if got.ReferenceRange != "13.5-17.5" {
		t.Errorf("reference range = %q, want the primary key to win", got.ReferenceRange)
	}
}

func TestNormalizeTestResultUnknownStatus(t *testing.T) {
	for _, status := range []string{"", "borderline", "???"} {
		got := NormalizeTestResult(RawTestResult{Name: "TSH", Value: "2.1", Status: status})
		if got.Status != ResultNormal {
			t.Errorf("status %q normalized to %q, want normal", status, got.Status)
		}
	}

	got := NormalizeTestResult(RawTestResult{Name: "TSH", Value: "9.1", Status: "HIGH"})
	if got.Status != ResultHigh {
		t.Errorf("status HIGH normalized to %q, want high", got.Status)
	}
}

func TestNormalizeSummaryAliasPairs(t *testing.T) {
	oldGen := NormalizeSummary(RawSummary{Severity: "medium", Overall: "Mild anemia."})
	newGen := NormalizeSummary(RawSummary{Severity: "medium", Summary: "Mild anemia."})

	if oldGen.Narrative != newGen.Narrative {
		t.Errorf("narrative aliases normalized differently: %q vs %q", oldGen.Narrative, newGen.Narrative)
	}
	if oldGen.Severity != SeverityMedium {
		t.Errorf("severity = %q, want medium", oldGen.Severity)
	}
}

func TestNormalizeSummaryUnknownSeverity(t *testing.T) {
	for _, sev := range []string{"", "catastrophic", "LOW "} {
		got := NormalizeSummary(RawSummary{Severity: sev})
		if !got.Severity.IsValid() {
			t.Errorf("severity %q normalized to invalid %q", sev, got.Severity)
		}
	}
	if got := NormalizeSummary(RawSummary{Severity: "unknown"}); got.Severity != SeverityLow {
		t.Errorf("unknown severity = %q, want low", got.Severity)
	}
	if got := NormalizeSummary(RawSummary{Severity: " HIGH "}); got.Severity != SeverityHigh {
		t.Errorf("severity ' HIGH ' = %q, want high", got.Severity)
	}
}

func TestFlexValueDecodesStringAndNumber(t *testing.T) {
	var raw RawTestResult
	if err := json.Unmarshal([]byte(`{"name":"Hemoglobin","value":"11.9 g/dL"}`), &raw); err != nil {
		t.Fatalf("string value: %v", err)
	}
	if raw.Value != "11.9 g/dL" {
		t.Errorf("string value = %q", raw.Value)
	}

	if err := json.Unmarshal([]byte(`{"name":"Hemoglobin","value":11.9}`), &raw); err != nil {
		t.Fatalf("numeric value: %v", err)
	}
	if raw.Value != "11.9" {
		t.Errorf("numeric value = %q, want \"11.9\"", raw.Value)
	}

	if err := json.Unmarshal([]byte(`{"name":"Hemoglobin","value":null}`), &raw); err != nil {
		t.Fatalf("null value: %v", err)
	}
	if raw.Value != "" {
		t.Errorf("null value = %q, want empty", raw.Value)
	}
}

func TestNormalizeFullAnnotation(t *testing.T) {
	payload := []byte(`{
		"ai_summary": {"severity": "high", "summary": "Critical findings.", "recommendations": ["See a doctor"]},
		"testResults": [
			{"testName": "WBC", "value": 14.2, "unit": "x10³/µL", "referenceRange": "4.0-11.0", "status": "high"},
			{"name": "Hemoglobin", "value": "11.9 g/dL", "normalRange": "13.5-17.5", "status": "low"}
		],
		"embedding_path": "embeddings/abc"
	}`)

	var raw RawAnnotation
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatal(err)
	}

	summary, results := Normalize(raw)
	if summary.Severity != SeverityHigh {
		t.Errorf("severity = %q, want high", summary.Severity)
	}
	if summary.Narrative != "Critical findings." {
		t.Errorf("narrative = %q", summary.Narrative)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Name != "WBC" || results[0].Value != "14.2" {
		t.Errorf("result 0 = %+v", results[0])
	}
	if results[1].ReferenceRange != "13.5-17.5" {
		t.Errorf("result 1 reference range = %q", results[1].ReferenceRange)
	}
	if raw.EmbeddingRef != "embeddings/abc" {
		t.Errorf("embedding ref = %q", raw.EmbeddingRef)
	}
}

func TestFallbackSummary(t *testing.T) {
	fb := FallbackSummary()
	if fb.Severity != SeverityLow {
		t.Errorf("fallback severity = %q, want low", fb.Severity)
	}
	if fb.Narrative != FallbackNarrative {
		t.Errorf("fallback narrative = %q", fb.Narrative)
	}
	if fb.UIStatus() != StatusNormal {
		t.Errorf("fallback status = %q, want normal", fb.UIStatus())
	}
}
