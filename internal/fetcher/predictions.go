// Package fetcher loads the validator's two inputs: prediction records from
// the analyzer's JSON output and the ground-truth table from an XLSX
// workbook.
package fetcher

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/partaudit/internal/model"
)

// ReadPredictions decodes a JSON array of flat prediction objects from r.
// The array is streamed element by element so a large batch does not need a
// second in-memory copy during decoding.
func ReadPredictions(r io.Reader) ([]model.PredictionRecord, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "predictions: read opening token")
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '[' {
		return nil, eris.Errorf("predictions: expected JSON array, got %v", tok)
	}

	var records []model.PredictionRecord
	for decoder.More() {
		var rec model.PredictionRecord
		if err := decoder.Decode(&rec); err != nil {
			return nil, eris.Wrapf(err, "predictions: decode element %d", len(records))
		}
		records = append(records, rec)
	}

	if _, err := decoder.Token(); err != nil && err != io.EOF {
		return nil, eris.Wrap(err, "predictions: read closing token")
	}

	return records, nil
}

// ReadPredictionsFile loads prediction records from a JSON file on disk.
func ReadPredictionsFile(path string) ([]model.PredictionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "predictions: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	records, err := ReadPredictions(f)
	if err != nil {
		return nil, eris.Wrapf(err, "predictions: parse %s", path)
	}
	return records, nil
}

// WritePredictionsFile writes prediction records as an indented JSON array,
// the same shape ReadPredictionsFile consumes.
func WritePredictionsFile(path string, records []model.PredictionRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "predictions: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []model.PredictionRecord{}
	}
	if err := enc.Encode(records); err != nil {
		return eris.Wrapf(err, "predictions: encode %s", path)
	}
	return nil
}
