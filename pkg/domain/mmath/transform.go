// 指示: miu200521358
package mmath

// Transform は位置・回転・スケールからなる剛体姿勢を表す。値型として扱う。
type Transform struct {
	Position Vec3
	Rotation Quaternion
	Scale    Vec3
}

// NewTransform は単位姿勢を生成する。
func NewTransform() Transform {
	return Transform{
		Position: ZERO_VEC3,
		Rotation: NewQuaternion(),
		Scale:    ONE_VEC3,
	}
}

// NewTransformFromPosRot は位置と回転から姿勢を生成する。スケールは1。
func NewTransformFromPosRot(position Vec3, rotation Quaternion) Transform {
	return Transform{
		Position: position,
		Rotation: rotation.Normalized(),
		Scale:    ONE_VEC3,
	}
}

// TransformPoint はローカル座標の点をこの姿勢の空間へ変換する。
func (t Transform) TransformPoint(point Vec3, useScale bool) Vec3 {
	if useScale {
		point = point.Muled(t.Scale)
	}
	return t.Position.Added(t.Rotation.MulVec3(point))
}

// InverseTransformPoint はこの姿勢の空間の点をローカル座標へ変換する。
func (t Transform) InverseTransformPoint(point Vec3, useScale bool) Vec3 {
	local := t.Rotation.Inverted().MulVec3(point.Subed(t.Position))
	if useScale {
		local = local.Dived(t.Scale)
	}
	return local
}

// TransformDirection は方向ベクトルを回転のみで変換する。
func (t Transform) TransformDirection(direction Vec3) Vec3 {
	return t.Rotation.MulVec3(direction)
}

// InverseTransformDirection は方向ベクトルを逆回転で変換する。
func (t Transform) InverseTransformDirection(direction Vec3) Vec3 {
	return t.Rotation.Inverted().MulVec3(direction)
}

// GetRelativeTransform は world 姿勢をこの姿勢基準の相対姿勢へ変換する。
func (t Transform) GetRelativeTransform(world Transform, useScale bool) Transform {
	relative := Transform{
		Position: t.InverseTransformPoint(world.Position, useScale),
		Rotation: t.Rotation.Inverted().Muled(world.Rotation),
		Scale:    world.Scale,
	}
	if useScale {
		relative.Scale = world.Scale.Dived(t.Scale)
	}
	return relative
}

// GetWorldTransform は相対姿勢をこの姿勢の空間へ戻す。
func (t Transform) GetWorldTransform(relative Transform, useScale bool) Transform {
	world := Transform{
		Position: t.TransformPoint(relative.Position, useScale),
		Rotation: t.Rotation.Muled(relative.Rotation),
		Scale:    relative.Scale,
	}
	if useScale {
		world.Scale = relative.Scale.Muled(t.Scale)
	}
	return world
}

// MoveInSpace は point をこの姿勢の回転軸で offset*weight だけ移動した位置を返す。
func (t Transform) MoveInSpace(point Vec3, offset Vec3, weight float64) Vec3 {
	return point.Added(t.Rotation.MulVec3(offset.MuledScalar(weight)))
}

// NearEquals は位置と回転が許容誤差内で一致するか判定する。
func (t Transform) NearEquals(other Transform, epsilon float64) bool {
	return t.Position.NearEquals(other.Position, epsilon) && t.Rotation.NearEquals(other.Rotation, epsilon)
}
