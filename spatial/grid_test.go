package spatial

import (
	"testing"

	"github.com/asset-importer/scenekit/math"
)

func TestFindPositionFindsExactAndNearDuplicates(t *testing.T) {
	points := []math.Vec3{
		math.NewVec3(0, 0, 0),
		math.NewVec3(0.0001, 0, 0),
		math.NewVec3(5, 5, 5),
	}
	idx := Build(points, 0.01)

	got := idx.FindPosition(math.NewVec3(0, 0, 0), 1e-3)
	if len(got) != 2 {
		t.Fatalf("expected 2 near-duplicate points, got %d: %v", len(got), got)
	}
}

func TestFindPositionRespectsEpsilon(t *testing.T) {
	points := []math.Vec3{
		math.NewVec3(0, 0, 0),
		math.NewVec3(1, 0, 0),
	}
	idx := Build(points, 0.1)

	got := idx.FindPosition(math.NewVec3(0, 0, 0), 0.5)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("expected only point 0 within epsilon 0.5, got %v", got)
	}
}

func TestFindPositionAcrossCellBoundary(t *testing.T) {
	// Two points straddling a cell boundary, within epsilon of each
	// other but landing in different buckets.
	points := []math.Vec3{
		math.NewVec3(0.99, 0, 0),
		math.NewVec3(1.01, 0, 0),
	}
	idx := Build(points, 1.0)

	got := idx.FindPosition(math.NewVec3(0.99, 0, 0), 0.1)
	if len(got) != 2 {
		t.Errorf("expected to find both points across the cell boundary, got %d", len(got))
	}
}
