// 指示: miu200521358
package model

import (
	"sort"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

// JointPose は姿勢定義の1関節分。未指定の成分は変更しない。
type JointPose struct {
	Position *mmath.Vec3
	Rotation *mmath.Quaternion
}

// Pose はA/Tポーズなどの静的なローカル姿勢定義。
type Pose struct {
	Name   string
	Joints map[string]JointPose
}

// NewPose は空の姿勢定義を生成する。
func NewPose(name string) *Pose {
	return &Pose{Name: name, Joints: map[string]JointPose{}}
}

// SetRotation はローカル回転を設定する。
func (p *Pose) SetRotation(name string, rotation mmath.Quaternion) {
	joint := p.Joints[name]
	joint.Rotation = &rotation
	p.Joints[name] = joint
}

// SetPosition はローカル位置を設定する。
func (p *Pose) SetPosition(name string, position mmath.Vec3) {
	joint := p.Joints[name]
	joint.Position = &position
	p.Joints[name] = joint
}

// Apply は骨格へ姿勢を適用し、骨格に存在しないボーン名を返す。
func (p *Pose) Apply(skeleton *Skeleton) []string {
	if p == nil || skeleton == nil {
		return nil
	}
	missing := make([]string, 0)
	for name, joint := range p.Joints {
		index, exists := skeleton.IndexOf(name)
		if !exists {
			missing = append(missing, name)
			continue
		}
		if joint.Rotation != nil {
			skeleton.SetLocalRotation(index, *joint.Rotation)
		}
		if joint.Position != nil {
			skeleton.SetLocalPosition(index, *joint.Position)
		}
	}
	sort.Strings(missing)
	return missing
}
