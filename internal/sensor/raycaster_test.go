package sensor

import (
	"math"
	"testing"

	"github.com/Versifine/glide/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

func testCourse(t *testing.T) *world.Course {
	t.Helper()
	c, err := world.FromBoxes([]world.Box{
		{Min: [3]int{-2, 0, 0}, Max: [3]int{2, 0, 30}, Layer: "ground"},
		{Min: [3]int{-3, 1, 10}, Max: [3]int{-3, 4, 20}, Layer: "wall"},
		{Min: [3]int{3, 1, 15}, Max: [3]int{3, 4, 25}, Layer: "wall"},
	})
	if err != nil {
		t.Fatalf("FromBoxes: %v", err)
	}
	return c
}

func TestProbeGround(t *testing.T) {
	r := NewRaycaster(testCourse(t))

	tests := []struct {
		name     string
		origin   mgl64.Vec3
		distance float64
		want     bool
	}{
		{"standing on top face", mgl64.Vec3{0.5, 1.0, 5.5}, 0.1, true},
		{"just above within range", mgl64.Vec3{0.5, 1.05, 5.5}, 0.1, true},
		{"airborne beyond range", mgl64.Vec3{0.5, 2.0, 5.5}, 0.1, false},
		{"off the course edge", mgl64.Vec3{8.5, 1.0, 5.5}, 0.1, false},
		{"behind the course", mgl64.Vec3{0.5, 1.0, -4.5}, 0.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ProbeGround(tt.origin, tt.distance); got != tt.want {
				t.Fatalf("ProbeGround(%v, %.2f) = %v, want %v", tt.origin, tt.distance, got, tt.want)
			}
		})
	}
}

func TestProbeWallReturnsFaceNormal(t *testing.T) {
	r := NewRaycaster(testCourse(t))

	normal, ok := r.ProbeWall(mgl64.Vec3{-1.5, 2.5, 12.5}, mgl64.Vec3{-1, 0, 0}, 1.0)
	if !ok {
		t.Fatalf("left wall not detected")
	}
	if normal != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("left wall normal = %v, want (1,0,0)", normal)
	}

	normal, ok = r.ProbeWall(mgl64.Vec3{2.5, 2.5, 17.5}, mgl64.Vec3{1, 0, 0}, 1.0)
	if !ok {
		t.Fatalf("right wall not detected")
	}
	if normal != (mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("right wall normal = %v, want (-1,0,0)", normal)
	}

	if _, ok := r.ProbeWall(mgl64.Vec3{-1.5, 2.5, 12.5}, mgl64.Vec3{-1, 0, 0}, 0.4); ok {
		t.Fatalf("wall beyond probe distance must not be reported")
	}
	if _, ok := r.ProbeWall(mgl64.Vec3{-1.5, 2.5, 5.5}, mgl64.Vec3{-1, 0, 0}, 1.0); ok {
		t.Fatalf("no wall exists at z=5.5")
	}
}

func TestCastFiltersByLayer(t *testing.T) {
	r := NewRaycaster(testCourse(t))

	// A wall probe pointed at the floor passes through ground cells.
	if _, ok := r.Cast(mgl64.Vec3{0.5, 1.0, 5.5}, mgl64.Vec3{0, -1, 0}, 3, world.LayerWall); ok {
		t.Fatalf("wall mask must ignore ground cells")
	}

	hit, ok := r.Cast(mgl64.Vec3{0.5, 1.5, 5.5}, mgl64.Vec3{0, -1, 0}, 3, world.LayerGround|world.LayerWall)
	if !ok {
		t.Fatalf("combined mask must hit the floor")
	}
	if math.Abs(hit.Distance-0.5) > 1e-9 {
		t.Fatalf("hit distance = %.6f, want 0.5", hit.Distance)
	}
	if hit.Cell != (world.Cell{X: 0, Y: 0, Z: 5}) {
		t.Fatalf("hit cell = %+v, want (0,0,5)", hit.Cell)
	}
	if hit.Normal != (mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("hit normal = %v, want (0,1,0)", hit.Normal)
	}
}

func TestCastDiagonal(t *testing.T) {
	c := world.NewCourse()
	if err := c.Fill(world.Cell{X: 2, Y: 0, Z: 2}, world.Cell{X: 2, Y: 0, Z: 2}, world.LayerWall); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	r := NewRaycaster(c)

	hit, ok := r.Cast(mgl64.Vec3{0.5, 0.5, 0.25}, mgl64.Vec3{1, 0, 1}, 10, world.LayerWall)
	if !ok {
		t.Fatalf("diagonal ray missed the wall cell")
	}
	if hit.Cell != (world.Cell{X: 2, Y: 0, Z: 2}) {
		t.Fatalf("hit cell = %+v, want (2,0,2)", hit.Cell)
	}
}

func TestCastDegenerateInputs(t *testing.T) {
	r := NewRaycaster(testCourse(t))
	if _, ok := r.Cast(mgl64.Vec3{0.5, 1, 5.5}, mgl64.Vec3{}, 3, world.LayerGround); ok {
		t.Fatalf("zero direction must not hit")
	}
	if _, ok := r.Cast(mgl64.Vec3{0.5, 1, 5.5}, mgl64.Vec3{0, -1, 0}, -1, world.LayerGround); ok {
		t.Fatalf("negative distance must not hit")
	}
	down := mgl64.Vec3{0, -1, 0}
	for _, d := range []float64{math.NaN(), math.Inf(1)} {
		if _, ok := r.Cast(mgl64.Vec3{0.5, 1, 5.5}, down, d, world.LayerGround); ok {
			t.Fatalf("distance %v must not hit", d)
		}
	}
	for _, origin := range []mgl64.Vec3{{math.NaN(), 1, 5.5}, {0.5, math.Inf(-1), 5.5}} {
		if _, ok := r.Cast(origin, down, 3, world.LayerGround); ok {
			t.Fatalf("origin %v must not hit", origin)
		}
	}
	var nilCaster *Raycaster
	if nilCaster.ProbeGround(mgl64.Vec3{0.5, 1, 5.5}, 1) {
		t.Fatalf("nil raycaster must not hit")
	}
}

func TestAnchoredProbesFromFeet(t *testing.T) {
	a := NewAnchored(NewRaycaster(testCourse(t)), DefaultLift)

	// Feet resting slightly below the top face still see the ground.
	if !a.ProbeGround(mgl64.Vec3{0.5, 0.9999999, 5.5}, 0.15) {
		t.Error("ground not detected from feet inside the top cell")
	}
	if a.ProbeGround(mgl64.Vec3{0.5, 1.3, 5.5}, 0.15) {
		t.Error("ground detected beyond probe distance")
	}

	n, ok := a.ProbeWall(mgl64.Vec3{-1.5, 1.0, 12.5}, mgl64.Vec3{-1, 0, 0}, 1.0)
	if !ok {
		t.Fatal("left wall not detected")
	}
	if n != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("normal = %v, want (1,0,0)", n)
	}
}
