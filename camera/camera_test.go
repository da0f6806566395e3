package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNew(t *testing.T) {
	cam := New(mgl64.Vec3{0, 2, 0}, 12)

	if cam.Target != (mgl64.Vec3{0, 2, 0}) {
		t.Errorf("expected target (0,2,0), got %v", cam.Target)
	}
	if cam.Distance != 12 {
		t.Errorf("expected distance 12, got %f", cam.Distance)
	}

	// Position must sit exactly Distance away from the target.
	d := cam.Position().Sub(cam.Target).Len()
	if math.Abs(d-12) > 1e-9 {
		t.Errorf("expected position 12 from target, got %f", d)
	}
}

func TestOrbitWrapsAndClamps(t *testing.T) {
	cam := New(mgl64.Vec3{}, 10)

	// Pitch never reaches the poles, no matter how far the drag.
	cam.Orbit(0, 10)
	if cam.Pitch > math.Pi/2 {
		t.Errorf("pitch %f exceeded the pole", cam.Pitch)
	}
	cam.Orbit(0, -20)
	if cam.Pitch < -math.Pi/2 {
		t.Errorf("pitch %f exceeded the lower pole", cam.Pitch)
	}

	// A full yaw revolution returns to the same position.
	before := cam.Position()
	cam.Orbit(2*math.Pi, 0)
	if cam.Position().Sub(before).Len() > 1e-9 {
		t.Errorf("full revolution moved the camera: %v -> %v", before, cam.Position())
	}
}

func TestDollyClamps(t *testing.T) {
	cam := New(mgl64.Vec3{}, 10)

	cam.Dolly(1000)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MaxDistance, cam.Distance)
	}
	cam.Dolly(-1000)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MinDistance, cam.Distance)
	}
}

func TestPanStaysHorizontal(t *testing.T) {
	cam := New(mgl64.Vec3{0, 2, 0}, 10)

	cam.Pan(3, -2)
	if cam.Target[1] != 2 {
		t.Errorf("pan changed target height to %f", cam.Target[1])
	}

	// Panning right is always perpendicular to the view direction on the
	// ground plane.
	cam2 := New(mgl64.Vec3{}, 10)
	cam2.Yaw = math.Pi / 3
	start := cam2.Target
	cam2.Pan(1, 0)
	moved := cam2.Target.Sub(start)
	view := cam2.Target.Sub(cam2.Position())
	view[1] = 0
	if math.Abs(moved.Dot(view)) > 1e-9 {
		t.Errorf("right pan not perpendicular to view: dot=%f", moved.Dot(view))
	}
}
