package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goscreen/app"
	"goscreen/domain/screening"
	"goscreen/internal/testkit"
)

func newCalibrationService(t *testing.T) *app.CalibrationService {
	t.Helper()
	svc, err := app.NewCalibrationService(nil, nil, testkit.NewTestKit().RNGAdapter())
	require.NoError(t, err)
	return svc
}

func TestCalibrationService_DeterministicForFixedSeed(t *testing.T) {
	svc := newCalibrationService(t)
	spec := app.CalibrationSpec{
		Category:    screening.CategoryMale,
		Subjects:    20,
		TrialCount:  5,
		Seed:        42,
		Concurrency: 4,
	}

	first, err := svc.Run(context.Background(), spec)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, first.FinalPosteriors, second.FinalPosteriors)
	assert.Equal(t, first.Mean, second.Mean)
	assert.Equal(t, first.VerdictCounts, second.VerdictCounts)
}

func TestCalibrationService_PosteriorsStayInUnitInterval(t *testing.T) {
	svc := newCalibrationService(t)

	result, err := svc.Run(context.Background(), app.CalibrationSpec{
		Category:   screening.CategoryMale,
		Subjects:   50,
		TrialCount: 8,
		Seed:       7,
	})
	require.NoError(t, err)
	require.Len(t, result.FinalPosteriors, 50)

	for i, p := range result.FinalPosteriors {
		assert.Greater(t, p, 0.0, "subject %d", i)
		assert.Less(t, p, 1.0, "subject %d", i)
	}

	total := 0
	for _, n := range result.VerdictCounts {
		total += n
	}
	assert.Equal(t, 50, total)
}

func TestCalibrationService_TruthSeparatesPopulations(t *testing.T) {
	svc := newCalibrationService(t)
	base := app.CalibrationSpec{
		Category:   screening.CategoryMale,
		Subjects:   100,
		TrialCount: 10,
		Seed:       42,
	}

	negative, err := svc.Run(context.Background(), base)
	require.NoError(t, err)

	positive := base
	positive.TruthPositive = true
	affected, err := svc.Run(context.Background(), positive)
	require.NoError(t, err)

	// Affected subjects answer worse, so their mean posterior must sit
	// above the unaffected population's.
	assert.Greater(t, affected.Mean, negative.Mean)
}

func TestCalibrationService_SpecValidation(t *testing.T) {
	svc := newCalibrationService(t)

	_, err := svc.Run(context.Background(), app.CalibrationSpec{
		Category: screening.CategoryMale, Subjects: 0, TrialCount: 5,
	})
	assert.Error(t, err)

	_, err = svc.Run(context.Background(), app.CalibrationSpec{
		Category: screening.CategoryMale, Subjects: 5, TrialCount: 0,
	})
	assert.Error(t, err)

	_, err = svc.Run(context.Background(), app.CalibrationSpec{
		Category: screening.Category("robot"), Subjects: 5, TrialCount: 5,
	})
	assert.Error(t, err)
}

func TestNewCalibrationService_RequiresRNG(t *testing.T) {
	_, err := app.NewCalibrationService(nil, nil, nil)
	assert.Error(t, err)
}
