package stimulus

import (
	"context"
	"testing"

	"goscreen/domain/screening"
)

func TestGeneratePlate_Deterministic(t *testing.T) {
	gen := NewDotFieldGenerator(500)
	ctx := context.Background()
	seed := screening.SeedFromPrior(0.08)

	for i := 0; i < 5; i++ {
		first, err := gen.GeneratePlate(ctx, i, seed)
		if err != nil {
			t.Fatalf("GeneratePlate(%d): %v", i, err)
		}
		second, err := gen.GeneratePlate(ctx, i, seed)
		if err != nil {
			t.Fatalf("GeneratePlate(%d): %v", i, err)
		}
		if first != second {
			t.Errorf("trial %d: plates diverged for identical inputs:\n%+v\n%+v", i, first, second)
		}
	}
}

func TestGeneratePlate_Ranges(t *testing.T) {
	gen := NewDotFieldGenerator(500)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		plate, err := gen.GeneratePlate(ctx, i, 42)
		if err != nil {
			t.Fatalf("GeneratePlate(%d): %v", i, err)
		}
		if plate.Target < 0 || plate.Target > 99 {
			t.Errorf("trial %d: target %d outside [0,99]", i, plate.Target)
		}
		if plate.Discriminability < 0 || plate.Discriminability > 1 {
			t.Errorf("trial %d: discriminability %v outside [0,1]", i, plate.Discriminability)
		}
		if plate.DotCount != 500 {
			t.Errorf("trial %d: dot count %d, want 500", i, plate.DotCount)
		}
	}
}

func TestGeneratePlate_MatchesDifficultyDraw(t *testing.T) {
	gen := NewDotFieldGenerator(500)
	model := screening.DefaultTrialDifficultyModel()
	ctx := context.Background()
	seed := screening.SeedFromPrior(0.08)

	for i := 0; i < 10; i++ {
		plate, err := gen.GeneratePlate(ctx, i, seed)
		if err != nil {
			t.Fatalf("GeneratePlate(%d): %v", i, err)
		}
		d, err := model.DrawDiscriminability(i, seed)
		if err != nil {
			t.Fatalf("DrawDiscriminability(%d): %v", i, err)
		}
		if plate.Discriminability != d {
			t.Errorf("trial %d: plate discriminability %v != difficulty draw %v", i, plate.Discriminability, d)
		}
		if got := screening.FigureDiscriminability(plate.FigureBrightness); got != plate.Discriminability {
			t.Errorf("trial %d: figure brightness %v maps to %v, plate reports %v",
				i, plate.FigureBrightness, got, plate.Discriminability)
		}
	}
}

func TestGeneratePlate_SeedChangesPlate(t *testing.T) {
	gen := NewDotFieldGenerator(500)
	ctx := context.Background()

	a, err := gen.GeneratePlate(ctx, 0, 1)
	if err != nil {
		t.Fatalf("GeneratePlate: %v", err)
	}
	b, err := gen.GeneratePlate(ctx, 0, 2)
	if err != nil {
		t.Fatalf("GeneratePlate: %v", err)
	}
	if a == b {
		t.Error("different seeds produced identical plates")
	}
}

func TestGeneratePlate_NegativeIndex(t *testing.T) {
	gen := NewDotFieldGenerator(0)
	if _, err := gen.GeneratePlate(context.Background(), -1, 42); err == nil {
		t.Error("expected error for negative trial index")
	}
}

func TestNewDotFieldGenerator_DefaultCount(t *testing.T) {
	gen := NewDotFieldGenerator(0)
	plate, err := gen.GeneratePlate(context.Background(), 0, 42)
	if err != nil {
		t.Fatalf("GeneratePlate: %v", err)
	}
	if plate.DotCount != DefaultDotCount {
		t.Errorf("DotCount = %d, want default %d", plate.DotCount, DefaultDotCount)
	}
}
