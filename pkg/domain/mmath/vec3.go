// 指示: miu200521358
package mmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

var (
	// ZERO_VEC3 は零ベクトル。
	ZERO_VEC3 = Vec3{}
	// ONE_VEC3 は全成分1のベクトル。
	ONE_VEC3 = Vec3{Vec: r3.Vec{X: 1, Y: 1, Z: 1}}
	// UNIT_X_VEC3 はX軸単位ベクトル。
	UNIT_X_VEC3 = Vec3{Vec: r3.Vec{X: 1}}
	// UNIT_Y_VEC3 はY軸単位ベクトル。
	UNIT_Y_VEC3 = Vec3{Vec: r3.Vec{Y: 1}}
	// UNIT_Z_VEC3 はZ軸単位ベクトル。
	UNIT_Z_VEC3 = Vec3{Vec: r3.Vec{Z: 1}}
	// UNIT_Y_NEG_VEC3 はY軸負方向単位ベクトル。
	UNIT_Y_NEG_VEC3 = Vec3{Vec: r3.Vec{Y: -1}}
)

// NewVec3 は成分指定でVec3を生成する。
func NewVec3(x float64, y float64, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// Added は加算結果を返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍を返す。
func (v Vec3) MuledScalar(s float64) Vec3 {
	return Vec3{Vec: r3.Scale(s, v.Vec)}
}

// Muled は成分ごとの積を返す。
func (v Vec3) Muled(other Vec3) Vec3 {
	return NewVec3(v.X*other.X, v.Y*other.Y, v.Z*other.Z)
}

// Dived は成分ごとの商を返す。除数が0の成分は元の値を保持する。
func (v Vec3) Dived(other Vec3) Vec3 {
	return NewVec3(safeDiv(v.X, other.X), safeDiv(v.Y, other.Y), safeDiv(v.Z, other.Z))
}

// Negated は符号反転を返す。
func (v Vec3) Negated() Vec3 {
	return v.MuledScalar(-1)
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// Length は長さを返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// LengthSqr は長さの2乗を返す。
func (v Vec3) LengthSqr() float64 {
	return r3.Norm2(v.Vec)
}

// Distance は2点間距離を返す。
func (v Vec3) Distance(other Vec3) float64 {
	return v.Subed(other).Length()
}

// Normalized は正規化ベクトルを返す。長さがほぼ0の場合は零ベクトル。
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length <= EPSILON {
		return ZERO_VEC3
	}
	return v.MuledScalar(1.0 / length)
}

// IsZero は長さがほぼ0か判定する。
func (v Vec3) IsZero() bool {
	return v.Length() <= EPSILON
}

// NearEquals は各成分が許容誤差内で一致するか判定する。
func (v Vec3) NearEquals(other Vec3, epsilon float64) bool {
	return scalar.EqualWithinAbs(v.X, other.X, epsilon) &&
		scalar.EqualWithinAbs(v.Y, other.Y, epsilon) &&
		scalar.EqualWithinAbs(v.Z, other.Z, epsilon)
}

// Lerp は other へ t で線形補間する。
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return v.Added(other.Subed(v).MuledScalar(t))
}

// String は表示用文字列を返す。
func (v Vec3) String() string {
	return fmt.Sprintf("[x=%.6f, y=%.6f, z=%.6f]", v.X, v.Y, v.Z)
}

// mgl はmgl64のベクトルへ変換する。
func (v Vec3) mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// vec3FromMgl はmgl64のベクトルからVec3を生成する。
func vec3FromMgl(v mgl64.Vec3) Vec3 {
	return NewVec3(v[0], v[1], v[2])
}

// safeDiv は除数0を許容する除算。
func safeDiv(a float64, b float64) float64 {
	if b == 0 {
		return a
	}
	return a / b
}
