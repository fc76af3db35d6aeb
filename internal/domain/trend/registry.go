package trend

// MetricID is a fixed, registry-defined identifier for a clinical
// measurement, distinct from any raw annotator test name.
type MetricID string

const (
	MetricHemoglobin  MetricID = "hemoglobin"
	MetricWBC         MetricID = "wbc"
	MetricCholesterol MetricID = "cholesterol"
	MetricGlucose     MetricID = "glucose"
	MetricTSH         MetricID = "tsh"
	MetricVitaminD    MetricID = "vitaminD"
)

// Metric describes one registered measurement. LowerIsBetter is the polarity:
// whether a decreasing value is the clinical improvement. Polarity lives here
// as data so a new metric declares its own direction without touching the
// evaluator.
type Metric struct {
	ID            MetricID
	Name          string
	Unit          string
	NormalRange   string
	Aliases       []string
	LowerIsBetter bool
}

// registry is the curated metric set. Aliases absorb annotator phrasing
// drift; matching is by bidirectional substring containment (see Resolve), so
// aliases should not be made so short that they swallow unrelated names.
var registry = []Metric{
	{
		ID:          MetricHemoglobin,
		Name:        "Hemoglobin",
		Unit:        "g/dL",
		NormalRange: "13.5-17.5",
		Aliases:     []string{"Hemoglobin", "Hgb", "Hb"},
	},
	{
		ID:          MetricWBC,
		Name:        "White Blood Cells",
		Unit:        "x10³/µL",
		NormalRange: "4.0-11.0",
		Aliases:     []string{"WBC", "White Blood Cells", "WBC Count", "Leukocytes"},
	},
	{
		ID:            MetricCholesterol,
		Name:          "Total Cholesterol",
		Unit:          "mg/dL",
		NormalRange:   "< 200",
		Aliases:       []string{"Total Cholesterol", "Cholesterol", "TC"},
		LowerIsBetter: true,
	},
	{
		ID:            MetricGlucose,
		Name:          "Fasting Glucose",
		Unit:          "mg/dL",
		NormalRange:   "70-100",
		Aliases:       []string{"Fasting Glucose", "Blood Glucose", "FBS", "Fasting Blood Sugar", "Glucose"},
		LowerIsBetter: true,
	},
	{
		ID:          MetricTSH,
		Name:        "TSH",
		Unit:        "µIU/mL",
		NormalRange: "0.4-4.0",
		Aliases:     []string{"TSH", "Thyroid Stimulating Hormone"},
	},
	{
		ID:          MetricVitaminD,
		Name:        "Vitamin D",
		Unit:        "ng/mL",
		NormalRange: "30-100",
		Aliases:     []string{"Vitamin D", "Vit D", "25-OH Vitamin D", "25-Hydroxyvitamin D"},
	},
}

// Metrics returns the registered metrics in registry order.
func Metrics() []Metric {
	out := make([]Metric, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the metric for an id.
func Lookup(id MetricID) (Metric, bool) {
	for _, m := range registry {
		if m.ID == id {
			return m, true
		}
	}
	return Metric{}, false
}

// IsRegistered reports whether id names a registered metric.
func IsRegistered(id MetricID) bool {
	_, ok := Lookup(id)
	return ok
}
