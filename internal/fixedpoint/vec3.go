package fixedpoint

// Vec3 is a triple of fixed scalars. The simulation is effectively
// 2.5D: X/Z form the horizontal plane used for spatial hashing, Y is
// the vertical (gravity) axis.
type Vec3 struct {
	X, Y, Z Fixed
}

var Vec3Zero = Vec3{}

func NewVec3(x, y, z Fixed) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func Vec3FromFloat64(x, y, z float64) Vec3 {
	return Vec3{X: FromFloat64(x), Y: FromFloat64(y), Z: FromFloat64(z)}
}

func (v Vec3) ToFloat64() (x, y, z float64) {
	return v.X.ToFloat64(), v.Y.ToFloat64(), v.Z.ToFloat64()
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Scale(s Fixed) Vec3 {
	return Vec3{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)}
}

func (v Vec3) Dot(o Vec3) Fixed {
	return v.X.Mul(o.X) + v.Y.Mul(o.Y) + v.Z.Mul(o.Z)
}

// LengthSquared is dot-with-self.
func (v Vec3) LengthSquared() Fixed {
	return v.Dot(v)
}

// Length uses fixed sqrt.
func (v Vec3) Length() Fixed {
	return v.LengthSquared().Sqrt()
}

// minNormalizeLength is 1/1000 in Q16.16 - below this length,
// Normalized returns the zero vector to prevent blow-up.
var minNormalizeLength = One.Div(FromInt(1000))

// Normalized returns v scaled to unit length, or the zero vector if
// v's length is below the blow-up threshold.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length < minNormalizeLength {
		return Vec3Zero
	}
	inv := One.Div(length)
	return v.Scale(inv)
}

func (v Vec3) Lerp(o Vec3, t Fixed) Vec3 {
	return Vec3{
		X: Lerp(v.X, o.X, t),
		Y: Lerp(v.Y, o.Y, t),
		Z: Lerp(v.Z, o.Z, t),
	}
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
