// 指示: miu200521358
// Package mmath はリタゲとIKで使う3次元数学型を提供する。
package mmath

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// EPSILON は長さ・角度の零判定に使う許容誤差。
	EPSILON = 1e-6
	// APPROXIMATE_EPSILON はスカラー比較の既定許容誤差。
	APPROXIMATE_EPSILON = 1e-6
)

// Lerp は a から b へ t で線形補間する。
func Lerp(a float64, b float64, t float64) float64 {
	return a + (b-a)*t
}

// Clamp は値を min-max に収める。
func Clamp(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Clamp01 は値を 0-1 に収める。
func Clamp01(value float64) float64 {
	return Clamp(value, 0, 1)
}

// ClampInt は整数値を min-max に収める。
func ClampInt(value int, min int, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NearZero は値がほぼ0か判定する。
func NearZero(value float64) bool {
	return scalar.EqualWithinAbs(value, 0, EPSILON)
}

// Approximately は2値がほぼ等しいか判定する。
func Approximately(a float64, b float64) bool {
	return scalar.EqualWithinAbs(a, b, APPROXIMATE_EPSILON)
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
