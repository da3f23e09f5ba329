package memory

import (
	"context"
	"testing"
	"time"

	"owlbench/domain/core"
	"owlbench/domain/verdict"
	"owlbench/models"
)

func runFixture(t *testing.T, suite string) *models.AnalysisRun {
	t.Helper()
	run, err := models.NewAnalysisRun(&verdict.Bundle{SuiteName: suite, Alpha: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	return run
}

func TestArchive_SaveAndGet(t *testing.T) {
	archive := NewArchive()
	ctx := context.Background()

	run := runFixture(t, "ore_2015")
	if err := archive.SaveRun(ctx, run); err != nil {
		t.Fatal(err)
	}

	got, err := archive.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SuiteName != "ore_2015" {
		t.Errorf("wrong run returned: %+v", got)
	}

	// Returned runs are copies; mutation must not leak into the archive.
	got.SuiteName = "mutated"
	again, _ := archive.GetRun(ctx, run.ID)
	if again.SuiteName != "ore_2015" {
		t.Error("archive stored a shared pointer")
	}
}

func TestArchive_GetUnknownRun(t *testing.T) {
	archive := NewArchive()
	if _, err := archive.GetRun(context.Background(), core.RunID(core.NewID())); err == nil {
		t.Error("expected an error for unknown run")
	}
}

func TestArchive_ListNewestFirst(t *testing.T) {
	archive := NewArchive()
	ctx := context.Background()

	old := runFixture(t, "a")
	old.CreatedAt = time.Now().Add(-time.Hour)
	recent := runFixture(t, "b")

	if err := archive.SaveRun(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := archive.SaveRun(ctx, recent); err != nil {
		t.Fatal(err)
	}

	runs, err := archive.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].SuiteName != "b" {
		t.Errorf("expected newest first, got %+v", runs)
	}
}

func TestArchive_ListForSuiteFilters(t *testing.T) {
	archive := NewArchive()
	ctx := context.Background()

	for _, suite := range []string{"a", "b", "a"} {
		if err := archive.SaveRun(ctx, runFixture(t, suite)); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := archive.ListRunsForSuite(ctx, "a", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs for suite a, got %d", len(runs))
	}
}
