package sym

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rotation is a right-handed rotation using the nautical convention of
// intrinsic yaw, pitch, roll order. Angles are symbolic values in degrees.
type Rotation struct {
	Name             string
	Roll, Pitch, Yaw Value
}

// NewRotation returns a Rotation with all angles concrete zero (no
// rotation), matching the default orientation of a newly created part.
func NewRotation(name string) *Rotation {
	return &Rotation{Name: name}
}

// IsResolved reports whether all three angles are concrete.
func (r *Rotation) IsResolved() bool {
	return r.Roll.IsResolved() && r.Pitch.IsResolved() && r.Yaw.IsResolved()
}

// Angles returns the concrete roll, pitch, and yaw in degrees, or an
// UnresolvedParameterError listing every unbound angle parameter.
func (r *Rotation) Angles() (roll, pitch, yaw float64, err error) {
	if !r.IsResolved() {
		e := &UnresolvedParameterError{}
		for _, v := range []Value{r.Roll, r.Pitch, r.Yaw} {
			if !v.IsResolved() {
				e.Symbols = append(e.Symbols, v.Symbol())
			}
		}
		return 0, 0, 0, e
	}
	roll, _ = r.Roll.Float()
	pitch, _ = r.Pitch.Float()
	yaw, _ = r.Yaw.Float()
	return roll, pitch, yaw, nil
}

// Bind substitutes the named parameter in place across all three angles.
func (r *Rotation) Bind(name string, val float64) {
	r.Roll = r.Roll.Bind(name, val)
	r.Pitch = r.Pitch.Bind(name, val)
	r.Yaw = r.Yaw.Bind(name, val)
}

// FreeParams adds every unbound angle parameter to set.
func (r *Rotation) FreeParams(set map[string]struct{}) {
	r.Roll.FreeParams(set)
	r.Pitch.FreeParams(set)
	r.Yaw.FreeParams(set)
}

// Clone returns an independent copy.
func (r *Rotation) Clone() *Rotation {
	cp := *r
	return &cp
}

// Equal reports structural equality of the three angles.
func (r *Rotation) Equal(o *Rotation) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Roll.Equal(o.Roll) && r.Pitch.Equal(o.Pitch) && r.Yaw.Equal(o.Yaw)
}

// Matrix returns the 3x3 rotation matrix, or an UnresolvedParameterError
// if any angle is still symbolic.
func (r *Rotation) Matrix() (*mat.Dense, error) {
	roll, pitch, yaw, err := r.Angles()
	if err != nil {
		return nil, err
	}
	return RotationMatrixDeg(roll, pitch, yaw), nil
}

// RotationMatrixDeg builds the 3x3 matrix for an intrinsic yaw-pitch-roll
// rotation with angles in degrees.
func RotationMatrixDeg(rollDeg, pitchDeg, yawDeg float64) *mat.Dense {
	roll := rollDeg * math.Pi / 180.0
	pitch := pitchDeg * math.Pi / 180.0
	yaw := yawDeg * math.Pi / 180.0

	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)

	return mat.NewDense(3, 3, []float64{
		cp * cy, sr*sp*cy - sy*cr, sr*sy + sp*cr*cy,
		sy * cp, sr*sp*sy + cr*cy, sp*sy*cr - sr*cy,
		-sp, sr * cp, cr * cp,
	})
}

// RotatePointDeg rotates p about center by the given yaw-pitch-roll angles
// in degrees.
func RotatePointDeg(center, p Vec3, rollDeg, pitchDeg, yawDeg float64) Vec3 {
	R := RotationMatrixDeg(rollDeg, pitchDeg, yawDeg)
	centered := mat.NewVecDense(3, []float64{p.X - center.X, p.Y - center.Y, p.Z - center.Z})
	var rotated mat.VecDense
	rotated.MulVec(R, centered)
	return Vec3{
		X: center.X + rotated.AtVec(0),
		Y: center.Y + rotated.AtVec(1),
		Z: center.Z + rotated.AtVec(2),
	}
}

// RotatePoint rotates p about center according to this Rotation.
func (r *Rotation) RotatePoint(center, p Vec3) (Vec3, error) {
	roll, pitch, yaw, err := r.Angles()
	if err != nil {
		return Vec3{}, err
	}
	return RotatePointDeg(center, p, roll, pitch, yaw), nil
}
