// 指示: miu200521358
package io_profile

import (
	"bytes"
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// vectorDocument は3要素のベクトル、またはオイラー角(度)3要素・クォータニオン4要素(xyzw)の回転。
type vectorDocument []float64

// toVec3 はベクトルへ変換する。空なら既定値を返す。
func (v vectorDocument) toVec3(fallback mmath.Vec3) (mmath.Vec3, error) {
	switch len(v) {
	case 0:
		return fallback, nil
	case 3:
		return mmath.NewVec3(v[0], v[1], v[2]), nil
	default:
		return mmath.Vec3{}, fmt.Errorf("ベクトルは3要素で指定してください: %v", []float64(v))
	}
}

// toQuaternion は回転へ変換する。3要素はオイラー角(度)、4要素はクォータニオン(xyzw)。
func (v vectorDocument) toQuaternion() (mmath.Quaternion, error) {
	switch len(v) {
	case 0:
		return mmath.NewQuaternion(), nil
	case 3:
		return mmath.NewQuaternionFromDegrees(v[0], v[1], v[2]), nil
	case 4:
		return mmath.NewQuaternionByValues(v[0], v[1], v[2], v[3]), nil
	default:
		return mmath.Quaternion{}, fmt.Errorf("回転は3要素(度)または4要素(xyzw)で指定してください: %v", []float64(v))
	}
}

func vectorOf(v mmath.Vec3) vectorDocument {
	return vectorDocument{v.X, v.Y, v.Z}
}

func quaternionOf(q mmath.Quaternion) vectorDocument {
	return vectorDocument{q.X(), q.Y(), q.Z(), q.W}
}

// transformDocument は位置・回転・スケールの組。
type transformDocument struct {
	Position vectorDocument `yaml:"position,flow,omitempty"`
	Rotation vectorDocument `yaml:"rotation,flow,omitempty"`
	Scale    vectorDocument `yaml:"scale,flow,omitempty"`
}

// toTransform は変換行列の組へ変換する。
func (d *transformDocument) toTransform() (mmath.Transform, error) {
	transform := mmath.NewTransform()
	if d == nil {
		return transform, nil
	}
	var err error
	if transform.Position, err = d.Position.toVec3(mmath.ZERO_VEC3); err != nil {
		return transform, err
	}
	if transform.Rotation, err = d.Rotation.toQuaternion(); err != nil {
		return transform, err
	}
	if transform.Scale, err = d.Scale.toVec3(mmath.ONE_VEC3); err != nil {
		return transform, err
	}
	return transform, nil
}

// transformOf はクリップ保存用にスケールを省いた文書を生成する。
func transformOf(transform mmath.Transform) transformDocument {
	return transformDocument{
		Position: vectorOf(transform.Position),
		Rotation: quaternionOf(transform.Rotation),
	}
}

// skeletonDocument は骨格ファイル。
type skeletonDocument struct {
	Name   string             `yaml:"name"`
	Root   *transformDocument `yaml:"root,omitempty"`
	Joints []jointDocument    `yaml:"joints"`
}

type jointDocument struct {
	Name              string `yaml:"name"`
	Parent            string `yaml:"parent,omitempty"`
	transformDocument `yaml:",inline"`
}

// toSkeleton は骨格へ変換する。親は先に定義されている必要がある。
func (d *skeletonDocument) toSkeleton() (*model.Skeleton, error) {
	skeleton := model.NewSkeleton(d.Name)
	root, err := d.Root.toTransform()
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}
	skeleton.Root = root
	for i := range d.Joints {
		joint := &d.Joints[i]
		local, err := joint.toTransform()
		if err != nil {
			return nil, fmt.Errorf("joints[%d] %s: %w", i, joint.Name, err)
		}
		if _, err := skeleton.AddJoint(joint.Name, joint.Parent, local); err != nil {
			return nil, err
		}
	}
	return skeleton, nil
}

// rigDocument はリグファイル。
type rigDocument struct {
	Name   string          `yaml:"name"`
	Chains []chainDocument `yaml:"chains"`
}

type chainDocument struct {
	Name   string   `yaml:"name"`
	Joints []string `yaml:"joints,flow"`
}

// toRig はリグへ変換する。
func (d *rigDocument) toRig() (*model.Rig, error) {
	rig := model.NewRig(d.Name)
	for _, chain := range d.Chains {
		if err := rig.AddChain(chain.Name, chain.Joints...); err != nil {
			return nil, err
		}
	}
	if err := rig.Validate(); err != nil {
		return nil, err
	}
	return rig, nil
}

// poseDocument はA/Tポーズなどの姿勢定義。
type poseDocument struct {
	Name   string                       `yaml:"name"`
	Joints map[string]poseJointDocument `yaml:"joints"`
}

type poseJointDocument struct {
	Position vectorDocument `yaml:"position,flow,omitempty"`
	Rotation vectorDocument `yaml:"rotation,flow,omitempty"`
}

// toPose は姿勢定義へ変換する。未指定の成分は適用しない。
func (d *poseDocument) toPose(fallbackName string) (*model.Pose, error) {
	if d == nil {
		return nil, nil
	}
	name := d.Name
	if name == "" {
		name = fallbackName
	}
	pose := model.NewPose(name)
	for jointName, joint := range d.Joints {
		if len(joint.Position) > 0 {
			position, err := joint.Position.toVec3(mmath.ZERO_VEC3)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", jointName, err)
			}
			pose.SetPosition(jointName, position)
		}
		if len(joint.Rotation) > 0 {
			rotation, err := joint.Rotation.toQuaternion()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", jointName, err)
			}
			pose.SetRotation(jointName, rotation)
		}
	}
	return pose, nil
}

// clipDocument はクリップファイル。
type clipDocument struct {
	Name   string          `yaml:"name"`
	Fps    float64         `yaml:"fps"`
	Frames []frameDocument `yaml:"frames"`
}

type frameDocument struct {
	Time   float64                      `yaml:"time"`
	Root   *transformDocument           `yaml:"root,omitempty"`
	Joints map[string]transformDocument `yaml:"joints"`
}

// toClip はクリップへ変換する。
func (d *clipDocument) toClip() (*model.Clip, error) {
	clip := model.NewClip(d.Name, d.Fps)
	for i, frameDoc := range d.Frames {
		frame := model.ClipFrame{Time: frameDoc.Time, Joints: make(map[string]mmath.Transform, len(frameDoc.Joints))}
		if frameDoc.Root != nil {
			root, err := frameDoc.Root.toTransform()
			if err != nil {
				return nil, fmt.Errorf("frames[%d] root: %w", i, err)
			}
			frame.Root = &root
		}
		for name, jointDoc := range frameDoc.Joints {
			local, err := jointDoc.toTransform()
			if err != nil {
				return nil, fmt.Errorf("frames[%d] %s: %w", i, name, err)
			}
			frame.Joints[name] = local
		}
		clip.AddFrame(frame)
	}
	return clip, nil
}

// clipDocumentOf は保存用のクリップ文書を生成する。
func clipDocumentOf(clip *model.Clip) clipDocument {
	doc := clipDocument{Name: clip.Name, Fps: clip.Fps, Frames: make([]frameDocument, 0, len(clip.Frames))}
	for _, frame := range clip.Frames {
		frameDoc := frameDocument{Time: frame.Time, Joints: make(map[string]transformDocument, len(frame.Joints))}
		if frame.Root != nil {
			root := transformOf(*frame.Root)
			frameDoc.Root = &root
		}
		for name, local := range frame.Joints {
			frameDoc.Joints[name] = transformOf(local)
		}
		doc.Frames = append(doc.Frames, frameDoc)
	}
	return doc
}

// decodeYAML はYAMLを文書へ読み込む。未知のキーはエラーにする。
func decodeYAML(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}
