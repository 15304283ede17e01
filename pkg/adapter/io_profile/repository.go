// 指示: miu200521358
// Package io_profile はリタゲ設定・骨格・リグ・クリップのYAML入出力を提供する。
package io_profile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/usecase/port/moutput"
	"github.com/miu200521358/mu_retarget/pkg/usecase/retarget"
	"gopkg.in/yaml.v3"
)

// profileDocument はプロファイルファイル。パスはプロファイルファイルからの相対で解決する。
type profileDocument struct {
	Name         string       `yaml:"name"`
	Source       sideDocument `yaml:"source"`
	Target       sideDocument `yaml:"target"`
	Clip         string       `yaml:"clip,omitempty"`
	ExcludeChain string       `yaml:"exclude_chain,omitempty"`
	Features     []yaml.Node  `yaml:"features"`
}

// sideDocument はリタゲ元・先それぞれの骨格・リグ・初期姿勢。
type sideDocument struct {
	Skeleton string        `yaml:"skeleton"`
	Rig      string        `yaml:"rig"`
	Pose     *poseDocument `yaml:"pose,omitempty"`
}

// ProfileRepository はYAML形式のリタゲ設定とクリップを読み書きする。
type ProfileRepository struct{}

// NewProfileRepository はProfileRepositoryを生成する。
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *ProfileRepository) CanLoad(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadProfile はプロファイルと参照先の骨格・リグを読み込む。
func (r *ProfileRepository) LoadProfile(path string) (*moutput.RetargetSetup, error) {
	var doc profileDocument
	if err := r.readDocument(path, &doc); err != nil {
		return nil, err
	}
	logProfileInfo("プロファイル読込: file=%s features=%d", filepath.Base(path), len(doc.Features))

	baseDir := filepath.Dir(path)
	binding := &retarget.Binding{}
	var err error
	if binding.Source, binding.SourceRig, err = r.loadSide(baseDir, "source", doc.Source); err != nil {
		return nil, err
	}
	if binding.Target, binding.TargetRig, err = r.loadSide(baseDir, "target", doc.Target); err != nil {
		return nil, err
	}

	profile := &retarget.Profile{
		Name:         doc.Name,
		ExcludeChain: doc.ExcludeChain,
		Features:     make([]retarget.Feature, 0, len(doc.Features)),
	}
	if profile.Name == "" {
		profile.Name = inferName(path)
	}
	if profile.SourcePose, err = doc.Source.Pose.toPose("source"); err != nil {
		return nil, newParseFailed("リタゲ元姿勢の解析に失敗しました", err)
	}
	if profile.TargetPose, err = doc.Target.Pose.toPose("target"); err != nil {
		return nil, newParseFailed("リタゲ先姿勢の解析に失敗しました", err)
	}
	for i := range doc.Features {
		feature, err := decodeFeature(&doc.Features[i])
		if err != nil {
			return nil, newParseFailed(fmt.Sprintf("features[%d] の解析に失敗しました", i), err)
		}
		profile.Features = append(profile.Features, feature)
	}

	return &moutput.RetargetSetup{
		Path:     path,
		Binding:  binding,
		Profile:  profile,
		ClipPath: resolvePath(baseDir, doc.Clip),
	}, nil
}

// loadSide は片側の骨格とリグを読み込む。
func (r *ProfileRepository) loadSide(baseDir string, side string, doc sideDocument) (*model.Skeleton, *model.Rig, error) {
	if strings.TrimSpace(doc.Skeleton) == "" || strings.TrimSpace(doc.Rig) == "" {
		return nil, nil, newParseFailed(side+" の skeleton と rig は必須です", nil)
	}
	skeleton, err := r.LoadSkeleton(resolvePath(baseDir, doc.Skeleton))
	if err != nil {
		return nil, nil, err
	}
	rig, err := r.LoadRig(resolvePath(baseDir, doc.Rig))
	if err != nil {
		return nil, nil, err
	}
	return skeleton, rig, nil
}

// LoadSkeleton は骨格を読み込む。
func (r *ProfileRepository) LoadSkeleton(path string) (*model.Skeleton, error) {
	var doc skeletonDocument
	if err := r.readDocument(path, &doc); err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = inferName(path)
	}
	skeleton, err := doc.toSkeleton()
	if err != nil {
		return nil, newParseFailed("骨格の構築に失敗しました: "+path, err)
	}
	logProfileVerbose("骨格読込: file=%s joints=%d", filepath.Base(path), skeleton.Len())
	return skeleton, nil
}

// LoadRig はリグを読み込む。
func (r *ProfileRepository) LoadRig(path string) (*model.Rig, error) {
	var doc rigDocument
	if err := r.readDocument(path, &doc); err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = inferName(path)
	}
	rig, err := doc.toRig()
	if err != nil {
		return nil, newParseFailed("リグの構築に失敗しました: "+path, err)
	}
	logProfileVerbose("リグ読込: file=%s chains=%d", filepath.Base(path), len(rig.Chains))
	return rig, nil
}

// LoadClip はクリップを読み込む。
func (r *ProfileRepository) LoadClip(path string) (*model.Clip, error) {
	var doc clipDocument
	if err := r.readDocument(path, &doc); err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = inferName(path)
	}
	clip, err := doc.toClip()
	if err != nil {
		return nil, newParseFailed("クリップの構築に失敗しました: "+path, err)
	}
	logProfileInfo("クリップ読込: file=%s frames=%d fps=%.3f", filepath.Base(path), clip.FrameCount(), clip.Fps)
	return clip, nil
}

// SaveClip はクリップを保存する。親ディレクトリが無ければ作成する。
func (r *ProfileRepository) SaveClip(path string, clip *model.Clip) error {
	if !r.CanLoad(path) {
		return newExtInvalid(path)
	}
	if clip == nil {
		return fmt.Errorf("保存対象クリップが未設定です")
	}
	data, err := yaml.Marshal(clipDocumentOf(clip))
	if err != nil {
		return fmt.Errorf("クリップのYAML変換に失敗しました: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("保存先ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("クリップの保存に失敗しました: %w", err)
	}
	logProfileInfo("クリップ保存: file=%s frames=%d", filepath.Base(path), clip.FrameCount())
	return nil
}

// readDocument はYAMLファイルを読み込み文書へ変換する。
func (r *ProfileRepository) readDocument(path string, out any) error {
	if !r.CanLoad(path) {
		return newExtInvalid(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newFileNotFound(path, err)
		}
		return newParseFailed("ファイルの読み取りに失敗しました: "+path, err)
	}
	if err := decodeYAML(data, out); err != nil {
		if errors.Is(err, io.EOF) {
			return newParseFailed("ファイルが空です: "+path, nil)
		}
		return newParseFailed("YAMLの解析に失敗しました: "+path, err)
	}
	return nil
}

// resolvePath は相対パスを基準ディレクトリから解決する。
func resolvePath(baseDir string, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// inferName はパスから表示名を推定する。
func inferName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
