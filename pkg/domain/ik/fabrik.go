// 指示: miu200521358
package ik

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

const (
	// DefaultMaxIterations はストリーミングジョブのFABRIK反復上限。
	DefaultMaxIterations = 16
	// DefaultStateMaxIterations は同期評価のFABRIK反復上限。
	DefaultStateMaxIterations = 25
	// DefaultTolerance は到達判定の許容距離。
	DefaultTolerance = 0.001
	// MinChainJoints はIKに必要な最小関節数。
	MinChainJoints = 3
)

// ChainIKData はFABRIKの作業領域。位置のみを扱い、回転は呼び出し側で導出する。
type ChainIKData struct {
	Positions     []mmath.Vec3
	Lengths       []float64
	Target        mmath.Vec3
	MaxReach      float64
	MaxIterations int
	Tolerance     float64
}

// ChainIKResult はFABRIKの実行結果。
type ChainIKResult struct {
	Iterations int
	Converged  bool
	Changed    bool
}

// NewChainIKData は関節数 n の作業領域を確保する。
func NewChainIKData(n int) *ChainIKData {
	if n < 0 {
		n = 0
	}
	return &ChainIKData{
		Positions:     make([]mmath.Vec3, n),
		Lengths:       make([]float64, max(n-1, 0)),
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// Gather は関節位置を取り込み、区間長と最大到達距離を更新する。
func (d *ChainIKData) Gather(positions []mmath.Vec3) {
	if len(d.Positions) != len(positions) {
		d.Positions = make([]mmath.Vec3, len(positions))
		d.Lengths = make([]float64, max(len(positions)-1, 0))
	}
	copy(d.Positions, positions)
	d.MaxReach = 0
	for i := 0; i+1 < len(positions); i++ {
		d.Lengths[i] = positions[i].Distance(positions[i+1])
		d.MaxReach += d.Lengths[i]
	}
}

// Tip は末端位置を返す。
func (d *ChainIKData) Tip() mmath.Vec3 {
	return d.Positions[len(d.Positions)-1]
}

// SolveFABRIK は前後往復で末端を目標へ近づける。根元位置は固定する。
func SolveFABRIK(d *ChainIKData) ChainIKResult {
	if d == nil || len(d.Positions) < MinChainJoints || d.MaxReach < limbEpsilon {
		return ChainIKResult{}
	}
	n := len(d.Positions)
	root := d.Positions[0]
	toTarget := d.Target.Subed(root)

	if toTarget.Length() >= d.MaxReach {
		// 届かない場合は目標方向へ一直線に伸ばす
		direction := toTarget.Normalized()
		for i := 1; i < n; i++ {
			d.Positions[i] = d.Positions[i-1].Added(direction.MuledScalar(d.Lengths[i-1]))
		}
		return ChainIKResult{
			Converged: d.Tip().Distance(d.Target) <= d.Tolerance,
			Changed:   true,
		}
	}

	if d.Tip().Distance(d.Target) <= d.Tolerance {
		return ChainIKResult{Converged: true}
	}

	result := ChainIKResult{Changed: true}
	fallback := toTarget.Normalized()
	for result.Iterations < d.MaxIterations {
		// backward
		d.Positions[n-1] = d.Target
		for i := n - 2; i >= 0; i-- {
			direction := segmentDirection(d.Positions[i+1], d.Positions[i], fallback.Negated())
			d.Positions[i] = d.Positions[i+1].Added(direction.MuledScalar(d.Lengths[i]))
		}
		// forward
		d.Positions[0] = root
		for i := 1; i < n; i++ {
			direction := segmentDirection(d.Positions[i-1], d.Positions[i], fallback)
			d.Positions[i] = d.Positions[i-1].Added(direction.MuledScalar(d.Lengths[i-1]))
		}
		result.Iterations++
		if d.Tip().Distance(d.Target) <= d.Tolerance {
			result.Converged = true
			break
		}
	}
	return result
}

// ChainRotation は基準方向から解の方向への回転を基準回転へ合成する。
func ChainRotation(
	cachedFrom mmath.Vec3,
	cachedTo mmath.Vec3,
	solvedFrom mmath.Vec3,
	solvedTo mmath.Vec3,
	cachedRotation mmath.Quaternion,
) mmath.Quaternion {
	delta := mmath.FromToRotation(cachedTo.Subed(cachedFrom), solvedTo.Subed(solvedFrom))
	return delta.Muled(cachedRotation)
}

// segmentDirection は from→to の単位方向を返す。重なっている場合は fallback。
func segmentDirection(from mmath.Vec3, to mmath.Vec3, fallback mmath.Vec3) mmath.Vec3 {
	direction := to.Subed(from).Normalized()
	if direction.IsZero() {
		if fallback.IsZero() {
			return mmath.UNIT_Y_VEC3
		}
		return fallback
	}
	return direction
}
