// 指示: miu200521358
package io_profile

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/usecase/retarget"
	"gopkg.in/yaml.v3"
)

// featureHeader は機能種別の判別に使う共通項目。
type featureHeader struct {
	Kind string `yaml:"kind"`
}

type basicDocument struct {
	Kind              string         `yaml:"kind"`
	Name              string         `yaml:"name,omitempty"`
	SourceChain       string         `yaml:"source_chain"`
	TargetChain       string         `yaml:"target_chain"`
	FeatureWeight     *float64       `yaml:"feature_weight,omitempty"`
	ScaleWeight       *float64       `yaml:"scale_weight,omitempty"`
	TranslationWeight *float64       `yaml:"translation_weight,omitempty"`
	Offset            vectorDocument `yaml:"offset,flow,omitempty"`
}

// toFeature は転写設定へ変換する。重みの未指定は既定値。
func (d *basicDocument) toFeature() (retarget.BasicFeature, error) {
	feature := retarget.NewBasicFeature(d.SourceChain, d.TargetChain)
	feature.DisplayName = d.Name
	assignWeight(&feature.FeatureWeight, d.FeatureWeight)
	assignWeight(&feature.ScaleWeight, d.ScaleWeight)
	assignWeight(&feature.TranslationWeight, d.TranslationWeight)
	offset, err := d.Offset.toVec3(mmath.ZERO_VEC3)
	if err != nil {
		return feature, fmt.Errorf("offset: %w", err)
	}
	feature.Offset = offset
	return feature, nil
}

type ikDocument struct {
	basicDocument  `yaml:",inline"`
	IKWeight       *float64       `yaml:"ik_weight,omitempty"`
	EffectorOffset vectorDocument `yaml:"effector_offset,flow,omitempty"`
	PoleOffset     vectorDocument `yaml:"pole_offset,flow,omitempty"`
	MaxIterations  int            `yaml:"max_iterations,omitempty"`
	Tolerance      float64        `yaml:"tolerance,omitempty"`
}

// toFeature はIK設定へ変換する。
func (d *ikDocument) toFeature() (retarget.IKFeature, error) {
	feature := retarget.NewIKFeature(d.SourceChain, d.TargetChain)
	basic, err := d.basicDocument.toFeature()
	if err != nil {
		return feature, err
	}
	feature.BasicFeature = basic
	assignWeight(&feature.IKWeight, d.IKWeight)
	if feature.EffectorOffset, err = d.EffectorOffset.toVec3(mmath.ZERO_VEC3); err != nil {
		return feature, fmt.Errorf("effector_offset: %w", err)
	}
	if feature.PoleOffset, err = d.PoleOffset.toVec3(mmath.ZERO_VEC3); err != nil {
		return feature, fmt.Errorf("pole_offset: %w", err)
	}
	feature.MaxIterations = d.MaxIterations
	feature.Tolerance = d.Tolerance
	return feature, nil
}

type copyDocument struct {
	Kind          string   `yaml:"kind"`
	Name          string   `yaml:"name,omitempty"`
	CopyFrom      string   `yaml:"copy_from"`
	CopyTo        string   `yaml:"copy_to"`
	FeatureWeight *float64 `yaml:"feature_weight,omitempty"`
}

type bonePoseDocument struct {
	Kind          string         `yaml:"kind"`
	Name          string         `yaml:"name,omitempty"`
	TargetChain   string         `yaml:"target_chain"`
	Rotation      vectorDocument `yaml:"rotation,flow"`
	FeatureWeight *float64       `yaml:"feature_weight,omitempty"`
}

type weaponGripDocument struct {
	Kind            string         `yaml:"kind"`
	Name            string         `yaml:"name,omitempty"`
	SourceRightArm  string         `yaml:"source_right_arm"`
	SourceLeftArm   string         `yaml:"source_left_arm"`
	SourceWeapon    string         `yaml:"source_weapon"`
	TargetRightArm  string         `yaml:"target_right_arm"`
	TargetLeftArm   string         `yaml:"target_left_arm"`
	TargetWeapon    string         `yaml:"target_weapon"`
	RightHandOffset vectorDocument `yaml:"right_hand_offset,flow,omitempty"`
	LeftHandOffset  vectorDocument `yaml:"left_hand_offset,flow,omitempty"`
	WeaponOffset    vectorDocument `yaml:"weapon_offset,flow,omitempty"`
	RightPoleOffset vectorDocument `yaml:"right_pole_offset,flow,omitempty"`
	LeftPoleOffset  vectorDocument `yaml:"left_pole_offset,flow,omitempty"`
	FeatureWeight   *float64       `yaml:"feature_weight,omitempty"`
}

// toFeature は武器グリップ設定へ変換する。
func (d *weaponGripDocument) toFeature() (retarget.WeaponGripFeature, error) {
	feature := retarget.WeaponGripFeature{
		DisplayName:    d.Name,
		SourceRightArm: d.SourceRightArm,
		SourceLeftArm:  d.SourceLeftArm,
		SourceWeapon:   d.SourceWeapon,
		TargetRightArm: d.TargetRightArm,
		TargetLeftArm:  d.TargetLeftArm,
		TargetWeapon:   d.TargetWeapon,
		FeatureWeight:  1,
	}
	assignWeight(&feature.FeatureWeight, d.FeatureWeight)
	for _, offset := range []struct {
		key  string
		doc  vectorDocument
		dest *mmath.Vec3
	}{
		{"right_hand_offset", d.RightHandOffset, &feature.RightHandOffset},
		{"left_hand_offset", d.LeftHandOffset, &feature.LeftHandOffset},
		{"weapon_offset", d.WeaponOffset, &feature.WeaponOffset},
		{"right_pole_offset", d.RightPoleOffset, &feature.RightPoleOffset},
		{"left_pole_offset", d.LeftPoleOffset, &feature.LeftPoleOffset},
	} {
		value, err := offset.doc.toVec3(mmath.ZERO_VEC3)
		if err != nil {
			return feature, fmt.Errorf("%s: %w", offset.key, err)
		}
		*offset.dest = value
	}
	return feature, nil
}

// decodeFeature は kind に応じてリタゲ機能を復元する。
func decodeFeature(node *yaml.Node) (retarget.Feature, error) {
	var header featureHeader
	if err := node.Decode(&header); err != nil {
		return nil, err
	}
	kind, err := retarget.ParseFeatureKind(header.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case retarget.FEATURE_KIND_BASIC:
		var doc basicDocument
		if err := decodeFeatureNode(node, &doc); err != nil {
			return nil, err
		}
		return doc.toFeature()
	case retarget.FEATURE_KIND_IK:
		var doc ikDocument
		if err := decodeFeatureNode(node, &doc); err != nil {
			return nil, err
		}
		return doc.toFeature()
	case retarget.FEATURE_KIND_COPY:
		var doc copyDocument
		if err := decodeFeatureNode(node, &doc); err != nil {
			return nil, err
		}
		feature := retarget.NewCopyFeature(doc.CopyFrom, doc.CopyTo)
		feature.DisplayName = doc.Name
		assignWeight(&feature.FeatureWeight, doc.FeatureWeight)
		return feature, nil
	case retarget.FEATURE_KIND_BONE_POSE:
		var doc bonePoseDocument
		if err := decodeFeatureNode(node, &doc); err != nil {
			return nil, err
		}
		rotation, err := doc.Rotation.toQuaternion()
		if err != nil {
			return nil, fmt.Errorf("rotation: %w", err)
		}
		feature := retarget.NewBonePoseFeature(doc.TargetChain, rotation)
		feature.DisplayName = doc.Name
		assignWeight(&feature.FeatureWeight, doc.FeatureWeight)
		return feature, nil
	default:
		var doc weaponGripDocument
		if err := decodeFeatureNode(node, &doc); err != nil {
			return nil, err
		}
		return doc.toFeature()
	}
}

// decodeFeatureNode は機能ノードを未知のキーを拒否して文書へ読み込む。
func decodeFeatureNode(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	return decodeYAML(data, out)
}

// assignWeight は指定がある場合のみ重みを上書きする。範囲外の値はセッション初期化時に丸める。
func assignWeight(dest *float64, value *float64) {
	if value != nil {
		*dest = *value
	}
}
