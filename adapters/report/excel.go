package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"goscreen/domain/screening"
)

const (
	sheetSummary    = "Summary"
	sheetTrajectory = "Trajectory"
	sheetTrials     = "Trials"
)

// XLSXReporter writes the session report as a workbook with summary,
// trajectory, and per-trial sheets.
type XLSXReporter struct{}

func NewXLSXReporter() *XLSXReporter {
	return &XLSXReporter{}
}

func (r *XLSXReporter) Extension() string {
	return "xlsx"
}

func (r *XLSXReporter) Render(ctx context.Context, rep screening.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// excelize starts with "Sheet1"; rename it to the summary sheet.
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}

	summaryRows := [][]interface{}{
		{"session_id", rep.SessionID.String()},
		{"category", string(rep.Category)},
		{"prior", rep.Prior},
		{"trial_count", rep.TrialCount},
		{"completed_trials", rep.CompletedTrials},
		{"correct_count", rep.CorrectCount},
		{"posterior", rep.Posterior},
		{"verdict", string(rep.Verdict)},
		{"fingerprint", rep.Fingerprint.String()},
	}
	if rep.Conjugate != nil {
		summaryRows = append(summaryRows,
			[]interface{}{"conjugate_mean", rep.Conjugate.Mean},
			[]interface{}{"conjugate_variance", rep.Conjugate.Variance},
			[]interface{}{"conjugate_ci_low", rep.Conjugate.CredibleLow},
			[]interface{}{"conjugate_ci_high", rep.Conjugate.CredibleHigh},
		)
	}
	if err := writeRows(f, sheetSummary, summaryRows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetTrajectory); err != nil {
		return nil, err
	}
	trajectoryRows := [][]interface{}{{"step", "posterior"}}
	for i, p := range rep.Trajectory {
		trajectoryRows = append(trajectoryRows, []interface{}{i, p})
	}
	if err := writeRows(f, sheetTrajectory, trajectoryRows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetTrials); err != nil {
		return nil, err
	}
	trialRows := [][]interface{}{{"trial", "correct", "likelihood_if_positive", "likelihood_if_negative", "posterior_before", "posterior_after"}}
	for _, t := range rep.Trials {
		trialRows = append(trialRows, []interface{}{t.Index + 1, t.Correct, t.LikelihoodIfPositive, t.LikelihoodIfNegative, t.PosteriorBefore, t.PosteriorAfter})
	}
	if err := writeRows(f, sheetTrials, trialRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
