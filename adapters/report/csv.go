package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"goscreen/domain/screening"
)

// CSVReporter writes the per-trial history (with posterior movement) as a
// flat CSV, one row per recorded trial plus a leading prior row.
type CSVReporter struct{}

func NewCSVReporter() *CSVReporter {
	return &CSVReporter{}
}

func (r *CSVReporter) Extension() string {
	return "csv"
}

func (r *CSVReporter) Render(ctx context.Context, rep screening.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"trial", "correct", "likelihood_if_positive", "likelihood_if_negative", "posterior"}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"0", "", "", "", formatFloat(rep.Prior)}); err != nil {
		return nil, err
	}
	for _, t := range rep.Trials {
		row := []string{
			strconv.Itoa(t.Index + 1),
			strconv.FormatBool(t.Correct),
			formatFloat(t.LikelihoodIfPositive),
			formatFloat(t.LikelihoodIfNegative),
			formatFloat(t.PosteriorAfter),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
