// 指示: miu200521358
// Package ik は2ボーン解析IKとFABRIKチェーンIKを提供する。
package ik

import (
	"math"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

const (
	// limbEpsilon は長さ0とみなすボーン長。
	limbEpsilon = 1e-5
	// straightSine は伸び切った肢とみなす曲げ角の正弦。
	straightSine = 1e-4
	// hintPlaneRatio はヒント補正を行う最小の投影長比(2乗)。
	hintPlaneRatio = 0.001
)

// RotationBlend は末端回転の扱いを表す。Preserve は肢に追従、Blend は目標回転へ重み付き補間する。
type RotationBlend struct {
	preserve bool
	weight   float64
}

// PreserveRotation は末端のローカル回転を保持して肢に追従させる。
func PreserveRotation() RotationBlend {
	return RotationBlend{preserve: true}
}

// BlendRotation は末端のワールド回転を目標回転へ weight で補間する。
func BlendRotation(weight float64) RotationBlend {
	return RotationBlend{weight: mmath.Clamp01(weight)}
}

// IsPreserve は保持指定か判定する。
func (b RotationBlend) IsPreserve() bool {
	return b.preserve
}

// Weight は補間重みを返す。保持指定の場合は0。
func (b RotationBlend) Weight() float64 {
	if b.preserve {
		return 0
	}
	return b.weight
}

// TwoBoneIKData は2ボーンIKの1回分の入出力。Root/Mid/Tip はワールド姿勢で、解決後に上書きされる。
type TwoBoneIKData struct {
	Root       mmath.Transform
	Mid        mmath.Transform
	Tip        mmath.Transform
	Target     mmath.Transform
	Hint       mmath.Vec3
	HasHint    bool
	HintWeight float64
	PosWeight  float64
	RotWeight  RotationBlend
}

// SolveTwoBoneIK は余弦定理で Root/Mid の回転を解き、3関節の姿勢を更新する。
// ボーン長が0の場合は入力を変更せず false を返す。
func SolveTwoBoneIK(data *TwoBoneIKData) bool {
	if data == nil {
		return false
	}
	a := data.Root.Position
	b := data.Mid.Position
	c := data.Tip.Position
	target := data.Target.Position

	ab := b.Subed(a)
	bc := c.Subed(b)
	lenAB := ab.Length()
	lenBC := bc.Length()
	if lenAB < limbEpsilon || lenBC < limbEpsilon {
		return false
	}

	rootInput := data.Root.Rotation
	midInput := data.Mid.Rotation
	tipInput := data.Tip.Rotation
	midLocalInput := rootInput.Inverted().Muled(midInput)
	tipLocalInput := midInput.Inverted().Muled(tipInput)
	midOffset := rootInput.Inverted().MulVec3(ab)
	tipOffset := midInput.Inverted().MulVec3(bc)

	ac := c.Subed(a)
	at := target.Subed(a)
	oldAngle := triangleAngle(ac.Length(), lenAB, lenBC)
	newAngle := triangleAngle(at.Length(), lenAB, lenBC)

	// 中間関節を曲げ平面の法線まわりに回す
	axis := ab.Cross(bc)
	if isNearlyParallel(ab, bc) {
		ah := data.Hint.Subed(a)
		switch {
		case data.HasHint && !isNearlyParallel(ah, bc):
			axis = ah.Cross(bc)
		case !isNearlyParallel(at, bc):
			axis = at.Cross(bc)
		default:
			axis = mmath.UNIT_Y_VEC3
		}
	}
	bend := mmath.NewQuaternionFromAxisAngle(axis, oldAngle-newAngle)
	midSolved := bend.Muled(midInput)
	cSolved := b.Added(bend.MulVec3(bc))

	// 根元を目標方向へ向ける
	aim := mmath.FromToRotation(cSolved.Subed(a), at)
	rootSolved := aim.Muled(rootInput)
	midSolved = aim.Muled(midSolved)

	if data.HasHint && data.HintWeight > 0 {
		bSolved := a.Added(rootSolved.MulVec3(midOffset))
		cSolved = bSolved.Added(midSolved.MulVec3(tipOffset))
		acSolved := cSolved.Subed(a)
		if acSolved.LengthSqr() > 0 {
			acNorm := acSolved.Normalized()
			abSolved := bSolved.Subed(a)
			ah := data.Hint.Subed(a)
			abProj := abSolved.Subed(acNorm.MuledScalar(abSolved.Dot(acNorm)))
			ahProj := ah.Subed(acNorm.MuledScalar(ah.Dot(acNorm)))
			maxReach := lenAB + lenBC
			if abProj.LengthSqr() > maxReach*maxReach*hintPlaneRatio && ahProj.LengthSqr() > 0 {
				hint := mmath.FromToRotation(abProj, ahProj).ScaledAxis(mmath.Clamp01(data.HintWeight))
				rootSolved = hint.Muled(rootSolved)
				midSolved = hint.Muled(midSolved)
			}
		}
	}

	// 入力回転から解へ posWeight で補間する
	posWeight := mmath.Clamp01(data.PosWeight)
	rootFinal := rootInput.Slerp(rootSolved, posWeight)
	midLocalSolved := rootSolved.Inverted().Muled(midSolved)
	midFinal := rootFinal.Muled(midLocalInput.Slerp(midLocalSolved, posWeight))

	data.Root.Rotation = rootFinal
	data.Mid.Rotation = midFinal
	data.Mid.Position = a.Added(rootFinal.MulVec3(midOffset))
	data.Tip.Position = data.Mid.Position.Added(midFinal.MulVec3(tipOffset))
	if data.RotWeight.IsPreserve() {
		data.Tip.Rotation = midFinal.Muled(tipLocalInput)
	} else {
		data.Tip.Rotation = tipInput.Slerp(data.Target.Rotation, data.RotWeight.Weight())
	}
	return true
}

// isNearlyParallel は2ベクトルのなす角の正弦が straightSine 未満か判定する。長さに依存しない。
func isNearlyParallel(u mmath.Vec3, v mmath.Vec3) bool {
	limit := straightSine * u.Length() * v.Length()
	return u.Cross(v).LengthSqr() <= limit*limit
}

// triangleAngle は辺長から opposite に対する内角を返す。
func triangleAngle(opposite float64, side1 float64, side2 float64) float64 {
	cos := (side1*side1 + side2*side2 - opposite*opposite) / (2 * side1 * side2)
	return math.Acos(mmath.Clamp(cos, -1, 1))
}
