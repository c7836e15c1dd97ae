package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/partaudit/internal/validate"
)

// formatReportTable writes the per-parameter accuracy table to out. Only
// parameters that gathered evidence are shown, matching what the overall
// percentage is computed from.
func formatReportTable(out io.Writer, r *validate.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PARAMETER\tCORRECT\tTOTAL\tACCURACY")

	for _, p := range r.Scored() {
		s := r.Stats[p]
		acc, _ := s.Accuracy()
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\n", p, s.Correct, s.Total, acc)
	}

	pct, correct, total := r.Overall()
	_, _ = fmt.Fprintf(w, "OVERALL\t%d\t%d\t%.1f%%\n", correct, total, pct)
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nPredictions: %d  Matched: %d  Unmatched: %d  Collisions: %d\n",
		r.Predictions, r.Matched, r.Unmatched, r.Collisions)
}

// writeReportCSV writes every tracked parameter as a CSV row. Parameters with
// no evidence get an empty accuracy column rather than a fake zero.
func writeReportCSV(out io.Writer, r *validate.Report) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"parameter", "correct", "total", "accuracy_pct"}); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, p := range r.Parameters {
		s := r.Stats[p]
		row := []string{p, strconv.Itoa(s.Correct), strconv.Itoa(s.Total), ""}
		if acc, ok := s.Accuracy(); ok {
			row[3] = strconv.FormatFloat(acc, 'f', 1, 64)
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	pct, correct, total := r.Overall()
	if err := w.Write([]string{"OVERALL", strconv.Itoa(correct), strconv.Itoa(total),
		strconv.FormatFloat(pct, 'f', 1, 64)}); err != nil {
		return eris.Wrap(err, "csv: write overall")
	}

	w.Flush()
	return eris.Wrap(w.Error(), "csv: flush")
}

// writeReportJSON writes the full report as indented JSON.
func writeReportJSON(out io.Writer, r *validate.Report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(r), "json: encode report")
}
