// 指示: miu200521358
package model

import (
	"sort"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

// ClipFrame は1キーフレーム分のローカル姿勢。
type ClipFrame struct {
	Time   float64
	Root   *mmath.Transform
	Joints map[string]mmath.Transform
}

// Clip はボーン名ごとのローカル姿勢キーフレーム列。
type Clip struct {
	Name   string
	Fps    float64
	Frames []ClipFrame
}

// NewClip は空のクリップを生成する。
func NewClip(name string, fps float64) *Clip {
	return &Clip{Name: name, Fps: fps}
}

// AddFrame はキーフレームを時刻順に追加する。同時刻は置き換える。
func (c *Clip) AddFrame(frame ClipFrame) {
	if frame.Joints == nil {
		frame.Joints = map[string]mmath.Transform{}
	}
	index := sort.Search(len(c.Frames), func(i int) bool {
		return c.Frames[i].Time >= frame.Time
	})
	if index < len(c.Frames) && c.Frames[index].Time == frame.Time {
		c.Frames[index] = frame
		return
	}
	c.Frames = append(c.Frames, ClipFrame{})
	copy(c.Frames[index+1:], c.Frames[index:])
	c.Frames[index] = frame
}

// FrameCount はキーフレーム数を返す。
func (c *Clip) FrameCount() int {
	if c == nil {
		return 0
	}
	return len(c.Frames)
}

// Duration は最終キーフレームの時刻を返す。
func (c *Clip) Duration() float64 {
	if c.FrameCount() == 0 {
		return 0
	}
	return c.Frames[len(c.Frames)-1].Time
}

// Sample は時刻の姿勢を補間して骨格へ書き込む。位置は線形、回転は球面線形で補間する。
func (c *Clip) Sample(skeleton *Skeleton, time float64) {
	if c.FrameCount() == 0 || skeleton == nil {
		return
	}
	prev, next, t := c.bracket(time)
	for index, name := range skeleton.Names() {
		from, hasFrom := prev.Joints[name]
		to, hasTo := next.Joints[name]
		switch {
		case hasFrom && hasTo:
			skeleton.SetLocalPosition(index, from.Position.Lerp(to.Position, t))
			skeleton.SetLocalRotation(index, from.Rotation.Slerp(to.Rotation, t))
		case hasFrom:
			skeleton.SetLocalPosition(index, from.Position)
			skeleton.SetLocalRotation(index, from.Rotation)
		case hasTo:
			skeleton.SetLocalPosition(index, to.Position)
			skeleton.SetLocalRotation(index, to.Rotation)
		}
	}
	switch {
	case prev.Root != nil && next.Root != nil:
		skeleton.Root.Position = prev.Root.Position.Lerp(next.Root.Position, t)
		skeleton.Root.Rotation = prev.Root.Rotation.Slerp(next.Root.Rotation, t)
	case prev.Root != nil:
		skeleton.Root.Position = prev.Root.Position
		skeleton.Root.Rotation = prev.Root.Rotation
	}
}

// bracket は時刻を挟む前後フレームと補間係数を返す。
func (c *Clip) bracket(time float64) (ClipFrame, ClipFrame, float64) {
	if time <= c.Frames[0].Time {
		return c.Frames[0], c.Frames[0], 0
	}
	last := c.Frames[len(c.Frames)-1]
	if time >= last.Time {
		return last, last, 0
	}
	index := sort.Search(len(c.Frames), func(i int) bool {
		return c.Frames[i].Time > time
	})
	prev := c.Frames[index-1]
	next := c.Frames[index]
	span := next.Time - prev.Time
	if span <= 0 {
		return next, next, 0
	}
	return prev, next, (time - prev.Time) / span
}
