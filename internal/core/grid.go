package core

import "fmt"

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

// Direction is a unit step on the grid.
type Direction struct {
	DX, DY int
}

var (
	West  = Direction{DX: -1}
	East  = Direction{DX: 1}
	South = Direction{DY: 1}
	North = Direction{DY: -1}
)

// Cardinals lists the four von Neumann directions in scan order.
var Cardinals = [4]Direction{West, East, South, North}

// Torus is a W×H coordinate space whose edges wrap around.
type Torus struct {
	W, H int
}

// NewTorus returns an n×n torus. Non-positive sizes collapse to 1.
func NewTorus(n int) Torus {
	if n <= 0 {
		n = 1
	}
	return Torus{W: n, H: n}
}

// Size reports the torus dimensions.
func (t Torus) Size() Size { return Size{W: t.W, H: t.H} }

// Len is the number of distinct coordinates.
func (t Torus) Len() int { return t.W * t.H }

// Contains reports whether p lies inside the canonical coordinate range.
func (t Torus) Contains(p Point) bool {
	return p.X >= 0 && p.X < t.W && p.Y >= 0 && p.Y < t.H
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (t Torus) Wrap(x, y int) Point {
	x = (x%t.W + t.W) % t.W
	y = (y%t.H + t.H) % t.H
	return Point{X: x, Y: y}
}

// Index returns the row-major slice index for p. Callers must pass wrapped
// coordinates; anything else is a bug.
func (t Torus) Index(p Point) int {
	if !t.Contains(p) {
		panic(fmt.Sprintf("core: point %v outside %dx%d torus", p, t.W, t.H))
	}
	return p.Y*t.W + p.X
}

// Point is the inverse of Index.
func (t Torus) Point(i int) Point {
	if i < 0 || i >= t.Len() {
		panic(fmt.Sprintf("core: index %d outside %dx%d torus", i, t.W, t.H))
	}
	return Point{X: i % t.W, Y: i / t.W}
}

// Step moves k unit steps from p in direction d.
func (t Torus) Step(p Point, d Direction, k int) Point {
	return t.Wrap(p.X+d.DX*k, p.Y+d.DY*k)
}

// Ray appends the k points reached stepping outward from p along d, nearest
// first. The origin itself is not included; on small tori points may repeat.
func (t Torus) Ray(dst []Point, p Point, d Direction, k int) []Point {
	for i := 1; i <= k; i++ {
		dst = append(dst, t.Step(p, d, i))
	}
	return dst
}
