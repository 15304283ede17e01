// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

// Quaternion は単位クォータニオンによる回転を表す。
type Quaternion mgl64.Quat

// NewQuaternion は単位回転を生成する。
func NewQuaternion() Quaternion {
	return Quaternion(mgl64.QuatIdent())
}

// NewQuaternionByValues は成分指定でクォータニオンを生成し正規化する。
func NewQuaternionByValues(x float64, y float64, z float64, w float64) Quaternion {
	return Quaternion(mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}.Normalize())
}

// NewQuaternionFromAxisAngle は軸と角度(ラジアン)から回転を生成する。軸が零の場合は単位回転。
func NewQuaternionFromAxisAngle(axis Vec3, angle float64) Quaternion {
	normalized := axis.Normalized()
	if normalized.IsZero() {
		return NewQuaternion()
	}
	return Quaternion(mgl64.QuatRotate(angle, normalized.mgl()))
}

// NewQuaternionFromDegrees はオイラー角(度)から回転を生成する。Z→X→Yの順に適用する。
func NewQuaternionFromDegrees(xDeg float64, yDeg float64, zDeg float64) Quaternion {
	qx := NewQuaternionFromAxisAngle(UNIT_X_VEC3, DegToRad(xDeg))
	qy := NewQuaternionFromAxisAngle(UNIT_Y_VEC3, DegToRad(yDeg))
	qz := NewQuaternionFromAxisAngle(UNIT_Z_VEC3, DegToRad(zDeg))
	return qy.Muled(qx).Muled(qz)
}

// FromToRotation は from 方向を to 方向へ向ける最短回転を返す。どちらかが零なら単位回転。
func FromToRotation(from Vec3, to Vec3) Quaternion {
	if from.IsZero() || to.IsZero() {
		return NewQuaternion()
	}
	return Quaternion(mgl64.QuatBetweenVectors(from.Normalized().mgl(), to.Normalized().mgl()).Normalize())
}

// X はX成分を返す。
func (q Quaternion) X() float64 {
	return q.V[0]
}

// Y はY成分を返す。
func (q Quaternion) Y() float64 {
	return q.V[1]
}

// Z はZ成分を返す。
func (q Quaternion) Z() float64 {
	return q.V[2]
}

// Muled は q * other を正規化して返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion(q.mgl().Mul(other.mgl()).Normalize())
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	return Quaternion(q.mgl().Normalize().Conjugate())
}

// Normalized は正規化した回転を返す。長さ0の場合は単位回転。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion(q.mgl().Normalize())
}

// Negated は全成分の符号を反転する。表す回転は同じ。
func (q Quaternion) Negated() Quaternion {
	return Quaternion(q.mgl().Scale(-1))
}

// MulVec3 はベクトルを回転する。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	return vec3FromMgl(q.mgl().Normalize().Rotate(v.mgl()))
}

// Dot は4成分の内積を返す。
func (q Quaternion) Dot(other Quaternion) float64 {
	return q.mgl().Dot(other.mgl())
}

// Slerp は other へ t で球面線形補間する。常に最短経路を通る。
func (q Quaternion) Slerp(other Quaternion, t float64) Quaternion {
	if t <= 0 {
		return q.Normalized()
	}
	if t >= 1 {
		return other.Normalized()
	}
	target := other
	if q.Dot(other) < 0 {
		target = other.Negated()
	}
	return Quaternion(mgl64.QuatSlerp(q.mgl(), target.mgl(), t).Normalize())
}

// ScaledAxis は回転軸成分のみを weight 倍して正規化する。ヒント回転の減衰に使う。
func (q Quaternion) ScaledAxis(weight float64) Quaternion {
	scaled := mgl64.Quat{W: q.W, V: q.V.Mul(weight)}
	return Quaternion(scaled.Normalize())
}

// AngleRad は other との間の回転角(ラジアン)を返す。
func (q Quaternion) AngleRad(other Quaternion) float64 {
	dot := math.Abs(q.Normalized().Dot(other.Normalized()))
	return 2 * math.Acos(Clamp(dot, -1, 1))
}

// AngleDegrees は other との間の回転角(度)を返す。
func (q Quaternion) AngleDegrees(other Quaternion) float64 {
	return RadToDeg(q.AngleRad(other))
}

// NearEquals は同じ回転を表すか判定する。符号反転は同一とみなす。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	a := q.Normalized()
	b := other.Normalized()
	return nearEqualsQuat(a, b, epsilon) || nearEqualsQuat(a, b.Negated(), epsilon)
}

// nearEqualsQuat は4成分が許容誤差内で一致するか判定する。
func nearEqualsQuat(a Quaternion, b Quaternion, epsilon float64) bool {
	return scalar.EqualWithinAbs(a.W, b.W, epsilon) &&
		scalar.EqualWithinAbs(a.X(), b.X(), epsilon) &&
		scalar.EqualWithinAbs(a.Y(), b.Y(), epsilon) &&
		scalar.EqualWithinAbs(a.Z(), b.Z(), epsilon)
}

// String は表示用文字列を返す。
func (q Quaternion) String() string {
	return fmt.Sprintf("[x=%.6f, y=%.6f, z=%.6f, w=%.6f]", q.X(), q.Y(), q.Z(), q.W)
}

// mgl はmgl64のクォータニオンへ変換する。
func (q Quaternion) mgl() mgl64.Quat {
	return mgl64.Quat(q)
}
