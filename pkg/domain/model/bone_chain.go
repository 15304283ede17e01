// 指示: miu200521358
package model

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// SpaceType は基準姿勢をキャッシュする空間。
type SpaceType int

const (
	// SPACE_COMPONENT はキャラクタールート基準の空間。
	SPACE_COMPONENT SpaceType = iota
	// SPACE_PARENT_BONE は親ボーン基準の空間。
	SPACE_PARENT_BONE
)

// String は表示用文字列を返す。
func (s SpaceType) String() string {
	switch s {
	case SPACE_COMPONENT:
		return "component"
	case SPACE_PARENT_BONE:
		return "parent_bone"
	default:
		return "unknown"
	}
}

// JointRef はボーン名と解決済みindexの組。
type JointRef struct {
	Name  string
	Index int
}

// BoneChain は骨格インスタンス上で解決済みのチェーン。基準姿勢は一度だけキャッシュする。
type BoneChain struct {
	Name             string
	Joints           []JointRef
	CachedTransforms []mmath.Transform
	Space            SpaceType
	cached           bool
}

// ResolveBoneChain はリグのチェーン定義を骨格上の関節へ解決する。未解決のボーン名は除外して返す。
func ResolveBoneChain(skeleton *Skeleton, rig *Rig, chainName string) (*BoneChain, []string, error) {
	definition, exists := rig.Chain(chainName)
	if !exists {
		return nil, nil, merr.Errorf(ErrorIDChainInvalid, "チェーン定義が見つかりません: %s", chainName)
	}
	chain := &BoneChain{Name: definition.Name, Joints: make([]JointRef, 0, len(definition.Joints))}
	missing := make([]string, 0)
	for _, name := range definition.Joints {
		index, found := skeleton.IndexOf(name)
		if !found {
			missing = append(missing, name)
			continue
		}
		chain.Joints = append(chain.Joints, JointRef{Name: name, Index: index})
	}
	return chain, missing, nil
}

// CacheTransforms は現在姿勢を指定空間で基準姿勢としてキャッシュする。再キャッシュは拒否する。
func (c *BoneChain) CacheTransforms(skeleton *Skeleton, space SpaceType) error {
	if c == nil {
		return merr.NewError(ErrorIDChainInvalid, "チェーンがありません", nil)
	}
	if c.cached {
		return merr.Errorf(ErrorIDChainAlreadyCached, "基準姿勢はキャッシュ済みです: %s", c.Name)
	}
	c.CachedTransforms = make([]mmath.Transform, 0, len(c.Joints))
	for _, joint := range c.Joints {
		c.CachedTransforms = append(c.CachedTransforms, c.transformIn(skeleton, joint.Index, space))
	}
	c.Space = space
	c.cached = true
	return nil
}

// IsCached は基準姿勢がキャッシュ済みか判定する。
func (c *BoneChain) IsCached() bool {
	return c != nil && c.cached
}

// IsValid はチェーンが空でなくキャッシュ数が一致しているか判定する。
func (c *BoneChain) IsValid() bool {
	if c == nil || len(c.Joints) == 0 {
		return false
	}
	return !c.cached || len(c.CachedTransforms) == len(c.Joints)
}

// Len は関節数を返す。
func (c *BoneChain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Joints)
}

// Indexes は関節indexの一覧を返す。
func (c *BoneChain) Indexes() []int {
	if c == nil {
		return nil
	}
	indexes := make([]int, 0, len(c.Joints))
	for _, joint := range c.Joints {
		indexes = append(indexes, joint.Index)
	}
	return indexes
}

// First は先頭関節を返す。
func (c *BoneChain) First() JointRef {
	return c.Joints[0]
}

// Last は末端関節を返す。
func (c *BoneChain) Last() JointRef {
	return c.Joints[len(c.Joints)-1]
}

// Length はキャラクタールート基準でのチェーン長を返す。単一関節はルートからの距離。
func (c *BoneChain) Length(skeleton *Skeleton) float64 {
	if c.Len() == 0 {
		return 0
	}
	if c.Len() == 1 {
		return skeleton.ComponentTransform(c.Joints[0].Index).Position.Length()
	}
	total := 0.0
	previous := skeleton.ComponentTransform(c.Joints[0].Index).Position
	for _, joint := range c.Joints[1:] {
		current := skeleton.ComponentTransform(joint.Index).Position
		total += previous.Distance(current)
		previous = current
	}
	return total
}

// transformIn は関節の現在姿勢を指定空間で返す。
func (c *BoneChain) transformIn(skeleton *Skeleton, index int, space SpaceType) mmath.Transform {
	if space == SPACE_PARENT_BONE {
		return skeleton.LocalTransform(index)
	}
	return skeleton.ComponentTransform(index)
}
