// 指示: miu200521358
// Package model は骨格・リグ・ボーンチェーン・姿勢・クリップのドメイン型を提供する。
package model

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
	"github.com/tiendc/go-deepcopy"
)

// ROOT_PARENT_INDEX はキャラクタールート直下の関節を表す親index。
const ROOT_PARENT_INDEX = -1

// Joint は骨格の1関節を表す。Local は親関節(またはキャラクタールート)基準の姿勢。
type Joint struct {
	Name        string
	ParentIndex int
	Local       mmath.Transform
}

// Skeleton は関節をindexで管理する骨格インスタンス。Root はコンポーネント空間の原点。
type Skeleton struct {
	Name        string
	Root        mmath.Transform
	joints      []Joint
	indexByName map[string]int
}

// NewSkeleton は空の骨格を生成する。
func NewSkeleton(name string) *Skeleton {
	return &Skeleton{
		Name:        name,
		Root:        mmath.NewTransform(),
		indexByName: map[string]int{},
	}
}

// AddJoint は関節を追加しindexを返す。親は先に追加されている必要がある。parentName が空ならルート直下。
func (s *Skeleton) AddJoint(name string, parentName string, local mmath.Transform) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1, merr.NewError(ErrorIDJointParentMissing, "ボーン名が空です", nil)
	}
	if _, exists := s.indexByName[name]; exists {
		return -1, merr.Errorf(ErrorIDJointDuplicated, "ボーン名が重複しています: %s", name)
	}
	parentIndex := ROOT_PARENT_INDEX
	if strings.TrimSpace(parentName) != "" {
		index, exists := s.indexByName[parentName]
		if !exists {
			return -1, merr.Errorf(ErrorIDJointParentMissing, "親ボーンが未定義です: %s -> %s", name, parentName)
		}
		parentIndex = index
	}
	local.Rotation = local.Rotation.Normalized()
	if local.Scale.IsZero() {
		local.Scale = mmath.ONE_VEC3
	}
	s.joints = append(s.joints, Joint{Name: name, ParentIndex: parentIndex, Local: local})
	index := len(s.joints) - 1
	s.indexByName[name] = index
	return index, nil
}

// Len は関節数を返す。
func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.joints)
}

// IndexOf はボーン名からindexを返す。
func (s *Skeleton) IndexOf(name string) (int, bool) {
	if s == nil {
		return -1, false
	}
	index, exists := s.indexByName[name]
	return index, exists
}

// Joint はindexの関節を返す。
func (s *Skeleton) Joint(index int) (Joint, bool) {
	if !s.contains(index) {
		return Joint{}, false
	}
	return s.joints[index], true
}

// Names は関節名を追加順で返す。
func (s *Skeleton) Names() []string {
	names := make([]string, 0, s.Len())
	for _, joint := range s.joints {
		names = append(names, joint.Name)
	}
	return names
}

// IsAncestor は ancestor が index の祖先関節か判定する。
func (s *Skeleton) IsAncestor(ancestor int, index int) bool {
	if !s.contains(ancestor) || !s.contains(index) {
		return false
	}
	for current := s.joints[index].ParentIndex; current >= 0; current = s.joints[current].ParentIndex {
		if current == ancestor {
			return true
		}
	}
	return false
}

// LocalTransform は関節のローカル姿勢を返す。
func (s *Skeleton) LocalTransform(index int) mmath.Transform {
	if !s.contains(index) {
		return mmath.NewTransform()
	}
	return s.joints[index].Local
}

// ParentWorldTransform は関節の親のワールド姿勢を返す。ルート直下ならキャラクタールート。
func (s *Skeleton) ParentWorldTransform(index int) mmath.Transform {
	if !s.contains(index) || s.joints[index].ParentIndex < 0 {
		return s.Root
	}
	return s.WorldTransform(s.joints[index].ParentIndex)
}

// WorldTransform は関節のワールド姿勢を親を辿って計算する。
func (s *Skeleton) WorldTransform(index int) mmath.Transform {
	if !s.contains(index) {
		return s.Root
	}
	return s.ParentWorldTransform(index).GetWorldTransform(s.joints[index].Local, true)
}

// ComponentTransform は関節のキャラクタールート基準の姿勢を返す。
func (s *Skeleton) ComponentTransform(index int) mmath.Transform {
	return s.Root.GetRelativeTransform(s.WorldTransform(index), true)
}

// WorldPosition は関節のワールド位置を返す。
func (s *Skeleton) WorldPosition(index int) mmath.Vec3 {
	return s.WorldTransform(index).Position
}

// WorldRotation は関節のワールド回転を返す。
func (s *Skeleton) WorldRotation(index int) mmath.Quaternion {
	return s.WorldTransform(index).Rotation
}

// WorldPositions は指定関節のワールド位置一覧を返す。外部描画向けの読み取り専用問い合わせ。
func (s *Skeleton) WorldPositions(indexes []int) []mmath.Vec3 {
	positions := make([]mmath.Vec3, 0, len(indexes))
	for _, index := range indexes {
		positions = append(positions, s.WorldPosition(index))
	}
	return positions
}

// SetWorldRotation は関節のワールド回転を設定する。子関節は追従する。
func (s *Skeleton) SetWorldRotation(index int, rotation mmath.Quaternion) {
	if !s.contains(index) {
		return
	}
	parent := s.ParentWorldTransform(index)
	s.joints[index].Local.Rotation = parent.Rotation.Inverted().Muled(rotation)
}

// SetWorldPosition は関節のワールド位置を設定する。
func (s *Skeleton) SetWorldPosition(index int, position mmath.Vec3) {
	if !s.contains(index) {
		return
	}
	parent := s.ParentWorldTransform(index)
	s.joints[index].Local.Position = parent.InverseTransformPoint(position, true)
}

// SetLocalRotation は関節のローカル回転を設定する。
func (s *Skeleton) SetLocalRotation(index int, rotation mmath.Quaternion) {
	if !s.contains(index) {
		return
	}
	s.joints[index].Local.Rotation = rotation.Normalized()
}

// SetLocalPosition は関節のローカル位置を設定する。
func (s *Skeleton) SetLocalPosition(index int, position mmath.Vec3) {
	if !s.contains(index) {
		return
	}
	s.joints[index].Local.Position = position
}

// SetLocalTransform は関節のローカル姿勢を設定する。
func (s *Skeleton) SetLocalTransform(index int, local mmath.Transform) {
	if !s.contains(index) {
		return
	}
	local.Rotation = local.Rotation.Normalized()
	s.joints[index].Local = local
}

// LocalTransforms は全関節のローカル姿勢のコピーを返す。
func (s *Skeleton) LocalTransforms() []mmath.Transform {
	locals := make([]mmath.Transform, 0, s.Len())
	for _, joint := range s.joints {
		locals = append(locals, joint.Local)
	}
	return locals
}

// RestoreLocalTransforms は LocalTransforms で退避した姿勢を書き戻す。
func (s *Skeleton) RestoreLocalTransforms(locals []mmath.Transform) error {
	if len(locals) != s.Len() {
		return fmt.Errorf("関節数が一致しません: got=%d want=%d", len(locals), s.Len())
	}
	for index := range s.joints {
		s.joints[index].Local = locals[index]
	}
	return nil
}

// Clone は骨格の独立したコピーを返す。
func (s *Skeleton) Clone() (*Skeleton, error) {
	cloned := NewSkeleton(s.Name)
	cloned.Root = s.Root
	if err := deepcopy.Copy(&cloned.joints, s.joints); err != nil {
		return nil, fmt.Errorf("骨格の複製に失敗しました: %w", err)
	}
	for index, joint := range cloned.joints {
		cloned.indexByName[joint.Name] = index
	}
	return cloned, nil
}

// contains はindexが範囲内か判定する。
func (s *Skeleton) contains(index int) bool {
	return s != nil && index >= 0 && index < len(s.joints)
}
