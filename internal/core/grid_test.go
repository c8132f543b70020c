package core

import (
	"slices"
	"testing"
)

func TestWrapWest(t *testing.T) {
	torus := NewTorus(5)
	for y := 0; y < 5; y++ {
		got := torus.Step(Point{X: 0, Y: y}, West, 1)
		if got != (Point{X: 4, Y: y}) {
			t.Fatalf("west of (0,%d) = %v, want (4,%d)", y, got, y)
		}
	}
	if got := torus.Step(Point{X: 2, Y: 4}, South, 1); got != (Point{X: 2, Y: 0}) {
		t.Fatalf("south of (2,4) = %v, want (2,0)", got)
	}
	if got := torus.Wrap(-11, 13); got != (Point{X: 4, Y: 3}) {
		t.Fatalf("Wrap(-11,13) = %v", got)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	torus := NewTorus(7)
	for i := 0; i < torus.Len(); i++ {
		if got := torus.Index(torus.Point(i)); got != i {
			t.Fatalf("Index(Point(%d)) = %d", i, got)
		}
	}
}

func TestIndexPanicsOutsideTorus(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range point")
		}
	}()
	NewTorus(3).Index(Point{X: 3, Y: 0})
}

func TestRayWrapsAndRepeats(t *testing.T) {
	torus := NewTorus(2)
	got := torus.Ray(nil, Point{X: 0, Y: 0}, East, 4)
	want := []Point{{1, 0}, {0, 0}, {1, 0}, {0, 0}}
	if !slices.Equal(got, want) {
		t.Fatalf("Ray = %v, want %v", got, want)
	}
}
