package validate

// ParameterStat is the counter pair for one tracked parameter. Counters only
// ever increase; correct <= total holds at all times.
type ParameterStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns the percentage of correct evaluations and whether it is
// defined (false when total is zero).
func (s ParameterStat) Accuracy() (float64, bool) {
	if s.Total == 0 {
		return 0, false
	}
	return float64(s.Correct) / float64(s.Total) * 100, true
}

// Report is the aggregated outcome of one validation run. It is handed off
// in-memory to whatever renders or persists it.
type Report struct {
	// Parameters lists tracked parameter names in mapping declaration order.
	Parameters []string `json:"parameters"`
	// Stats holds the counter pair for every tracked parameter, including
	// those that gathered no evidence (total zero).
	Stats map[string]*ParameterStat `json:"stats"`

	// Diagnostics.
	Predictions int `json:"predictions"`
	Matched     int `json:"matched"`
	Unmatched   int `json:"unmatched"`
	Collisions  int `json:"collisions"`
}

// newReport allocates a report with zeroed counters for every parameter.
func newReport(parameters []string) *Report {
	stats := make(map[string]*ParameterStat, len(parameters))
	for _, p := range parameters {
		stats[p] = &ParameterStat{}
	}
	return &Report{Parameters: parameters, Stats: stats}
}

// merge folds another report's counters into r. Both reports must track the
// same parameter set. Addition is commutative and associative, so merge
// order never affects the result.
func (r *Report) merge(other *Report) {
	for name, s := range other.Stats {
		dst := r.Stats[name]
		if dst == nil {
			dst = &ParameterStat{}
			r.Stats[name] = dst
		}
		dst.Correct += s.Correct
		dst.Total += s.Total
	}
	r.Predictions += other.Predictions
	r.Matched += other.Matched
	r.Unmatched += other.Unmatched
}

// Overall returns the grand accuracy percentage with its numerator and
// denominator. A zero denominator yields 0 percent, not an arithmetic fault.
func (r *Report) Overall() (pct float64, correct, total int) {
	for _, s := range r.Stats {
		correct += s.Correct
		total += s.Total
	}
	if total == 0 {
		return 0, correct, total
	}
	return float64(correct) / float64(total) * 100, correct, total
}

// Scored returns the parameters that gathered evidence, in declaration
// order. Parameters with total zero are excluded so downstream percentage
// rendering never divides by zero.
func (r *Report) Scored() []string {
	var out []string
	for _, p := range r.Parameters {
		if s := r.Stats[p]; s != nil && s.Total > 0 {
			out = append(out, p)
		}
	}
	return out
}
