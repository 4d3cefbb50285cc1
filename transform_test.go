package marionette

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertNearTol(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tol %v)", name, got, want, tol)
	}
}

func assertMatrix(t *testing.T, name string, got, want mgl64.Mat4) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
			return
		}
	}
}

func assertVec(t *testing.T, name string, got, want mgl64.Vec3) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

// --- RotateAboutPivot ---

func TestTransformStartsAtIdentity(t *testing.T) {
	tr := NewTransform()
	assertMatrix(t, "local", tr.Local(), mgl64.Ident4())
	if len(tr.History()) != 0 {
		t.Errorf("history = %v, want empty", tr.History())
	}
}

func TestRotateZeroDegreesKeepsMatrix(t *testing.T) {
	tr := NewTransform()
	tr.RotateAboutPivot(AxisX, 0, mgl64.Vec3{3, 4, 5})
	assertMatrix(t, "local", tr.Local(), mgl64.Ident4())
	if n := len(tr.History()); n != 1 {
		t.Errorf("history length = %d, want 1", n)
	}
}

func TestRotateAboutPivotKeepsPivotFixed(t *testing.T) {
	tests := []struct {
		name  string
		axis  Axis
		deg   float64
		pivot mgl64.Vec3
		in    mgl64.Vec3
		want  mgl64.Vec3
	}{
		{"z90 about x=1", AxisZ, 90, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 1, 0}},
		{"x90 about y=2", AxisX, 90, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0, 2, 1}},
		{"y180 about origin", AxisY, 180, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 0, 0}},
		{"pivot maps to itself", AxisZ, 37, mgl64.Vec3{5, -2, 1}, mgl64.Vec3{5, -2, 1}, mgl64.Vec3{5, -2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransform()
			tr.RotateAboutPivot(tt.axis, tt.deg, tt.pivot)
			got := mgl64.TransformCoordinate(tt.in, tr.Local())
			assertVec(t, "point", got, tt.want)
		})
	}
}

func TestRotationsComposeInCurrentFrame(t *testing.T) {
	tr := NewTransform()
	tr.RotateAboutPivot(AxisX, 90, mgl64.Vec3{})
	tr.RotateAboutPivot(AxisZ, 90, mgl64.Vec3{})
	want := mgl64.HomogRotate3DX(math.Pi / 2).Mul4(mgl64.HomogRotate3DZ(math.Pi / 2))
	assertMatrix(t, "local", tr.Local(), want)
}

func TestPivotRotationMatchesDefinition(t *testing.T) {
	p := mgl64.Vec3{1.5, -2, 0.25}
	got := PivotRotation(AxisZ, 35, p)
	want := mgl64.Translate3D(p[0], p[1], p[2]).
		Mul4(mgl64.HomogRotate3D(mgl64.DegToRad(35), mgl64.Vec3{0, 0, 1})).
		Mul4(mgl64.Translate3D(-p[0], -p[1], -p[2]))
	assertMatrix(t, "pivot rotation", got, want)
}

func TestNetDegreesSumsPerAxis(t *testing.T) {
	tr := NewTransform()
	tr.RotateAboutPivot(AxisX, 0, mgl64.Vec3{})
	tr.RotateAboutPivot(AxisX, -2, mgl64.Vec3{})
	tr.RotateAboutPivot(AxisZ, 0.6, mgl64.Vec3{})
	assertNear(t, "x", tr.NetDegrees(AxisX), -2)
	assertNear(t, "z", tr.NetDegrees(AxisZ), 0.6)
	assertNear(t, "y", tr.NetDegrees(AxisY), 0)
}

func TestHistoryIsACopy(t *testing.T) {
	tr := NewTransform()
	tr.RotateAboutPivot(AxisX, 2, mgl64.Vec3{})
	h := tr.History()
	h[0].Degrees = 99
	assertNear(t, "history degrees", tr.History()[0].Degrees, 2)
}

func TestCommitRestAndReset(t *testing.T) {
	tr := NewTransform()
	tr.RotateAboutPivot(AxisZ, 35, mgl64.Vec3{1, 0, 0})
	rest := tr.Local()
	tr.commitRest()
	if len(tr.History()) != 0 {
		t.Fatalf("history after commit = %v", tr.History())
	}
	assertMatrix(t, "rest", tr.Rest(), rest)

	tr.RotateAboutPivot(AxisX, 10, mgl64.Vec3{})
	tr.reset()
	assertMatrix(t, "after reset", tr.Local(), rest)
	if len(tr.History()) != 0 {
		t.Errorf("history after reset = %v", tr.History())
	}
}

func TestCompose(t *testing.T) {
	parent := mgl64.Translate3D(1, 2, 3)
	local := mgl64.HomogRotate3DZ(math.Pi / 2)
	got := mgl64.TransformCoordinate(mgl64.Vec3{1, 0, 0}, Compose(parent, local))
	assertVec(t, "composed point", got, mgl64.Vec3{1, 3, 3})
}
