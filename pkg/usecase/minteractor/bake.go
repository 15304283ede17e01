// 指示: miu200521358
package minteractor

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/usecase/port/moutput"
	"github.com/miu200521358/mu_retarget/pkg/usecase/retarget"
)

// bakeTimeEpsilon は最終フレーム判定の許容誤差。
const bakeTimeEpsilon = 1e-9

// LoadSetup はリタゲ設定一式を読み込む。
func (uc *RetargetUsecase) LoadSetup(rep moutput.IProfileReader, path string) (*moutput.RetargetSetup, error) {
	reader := rep
	if reader == nil {
		reader = uc.profileReader
	}
	if reader == nil {
		return nil, fmt.Errorf("プロファイル読み込みリポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("プロファイルパスが未指定です")
	}
	if !reader.CanLoad(path) {
		return nil, fmt.Errorf("プロファイルの拡張子に対応していません: %s", path)
	}
	return reader.LoadProfile(path)
}

// LoadClip はリタゲ元クリップを読み込む。
func (uc *RetargetUsecase) LoadClip(rep moutput.IClipReader, path string) (*model.Clip, error) {
	reader := rep
	if reader == nil {
		reader = uc.clipReader
	}
	if reader == nil {
		return nil, fmt.Errorf("クリップ読み込みリポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("リタゲ元クリップパスが未指定です")
	}
	if !reader.CanLoad(path) {
		return nil, fmt.Errorf("クリップの拡張子に対応していません: %s", path)
	}
	return reader.LoadClip(path)
}

// SaveClip は出力クリップを保存する。
func (uc *RetargetUsecase) SaveClip(rep moutput.IClipWriter, path string, clip *model.Clip) error {
	writer := rep
	if writer == nil {
		writer = uc.clipWriter
	}
	if writer == nil {
		return fmt.Errorf("クリップ保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if clip == nil {
		return fmt.Errorf("保存対象クリップが未設定です")
	}
	return writer.SaveClip(path, clip)
}

// Bake はリタゲ元クリップを毎フレームリタゲ先骨格へ転写し、リタゲ先のローカル姿勢をクリップとして保存する。
func (uc *RetargetUsecase) Bake(request BakeRequest) (*BakeResult, error) {
	setup := request.Setup
	if setup == nil {
		loaded, err := uc.LoadSetup(nil, request.ProfilePath)
		if err != nil {
			return nil, err
		}
		setup = loaded
	}
	if setup == nil || setup.Binding == nil || setup.Profile == nil {
		return nil, fmt.Errorf("プロファイル読み込み結果が空です")
	}
	reportBakeProgress(request.ProgressReporter, BakeProgressEvent{Type: BakeProgressEventTypeProfileLoaded})

	clipPath := strings.TrimSpace(request.ClipPath)
	if clipPath == "" {
		clipPath = setup.ClipPath
	}
	sourceClip := request.SourceClip
	if sourceClip == nil {
		loaded, err := uc.LoadClip(nil, clipPath)
		if err != nil {
			return nil, err
		}
		sourceClip = loaded
	}
	if sourceClip.FrameCount() == 0 {
		return nil, fmt.Errorf("リタゲ元クリップにキーフレームがありません")
	}
	reportBakeProgress(request.ProgressReporter, BakeProgressEvent{Type: BakeProgressEventTypeClipLoaded})

	outputPath, err := resolveClipOutputPath(clipPath, request.OutputPath)
	if err != nil {
		return nil, err
	}

	session := retarget.NewSession(setup.Binding, setup.Profile,
		retarget.WithMaxIterations(request.MaxIterations),
		retarget.WithTolerance(request.Tolerance),
	)
	if err := session.Initialize(); err != nil {
		return nil, fmt.Errorf("リタゲセッションの初期化に失敗しました: %w", err)
	}
	defer session.Destroy()
	reportBakeProgress(request.ProgressReporter, BakeProgressEvent{Type: BakeProgressEventTypeSessionInitialized})

	fps := resolveFps(request.Fps, sourceClip.Fps)
	times := bakeTimes(sourceClip.Duration(), fps)
	recorded := recordedJoints(setup.Binding, session.ExcludedJoints(), request.KeyframeAll)
	logBakeInfo("焼き込み開始: profile=%s clip=%s fps=%.3f frames=%d joints=%d",
		setup.Profile.Name, sourceClip.Name, fps, len(times), len(recorded))

	output := model.NewClip(outputClipName(sourceClip.Name, setup.Profile.Name), fps)
	source := setup.Binding.Source
	target := setup.Binding.Target
	for frameIndex, time := range times {
		sourceClip.Sample(source, time)
		session.Retarget(time)

		frame := model.ClipFrame{Time: time, Joints: make(map[string]mmath.Transform, len(recorded))}
		for _, index := range recorded {
			joint, _ := target.Joint(index)
			frame.Joints[joint.Name] = target.LocalTransform(index)
		}
		if request.RootMotion {
			root := source.Root
			frame.Root = &root
		}
		output.AddFrame(frame)
		logBakeVerbose("フレーム焼き込み: index=%d time=%.6f", frameIndex, time)
		reportBakeProgress(request.ProgressReporter, BakeProgressEvent{
			Type:       BakeProgressEventTypeFrameBaked,
			FrameIndex: frameIndex,
			FrameCount: len(times),
		})
	}

	if err := uc.SaveClip(nil, outputPath, output); err != nil {
		return nil, fmt.Errorf("出力クリップの保存に失敗しました: %w", err)
	}
	reportBakeProgress(request.ProgressReporter, BakeProgressEvent{
		Type:       BakeProgressEventTypeClipSaved,
		FrameCount: output.FrameCount(),
	})
	logBakeInfo("焼き込み完了: output=%s frames=%d", outputPath, output.FrameCount())

	return &BakeResult{
		Clip:            output,
		OutputPath:      outputPath,
		FrameCount:      output.FrameCount(),
		InvalidFeatures: session.InvalidFeatures(),
		Diagnostics:     session.Diagnostics(),
	}, nil
}

// resolveFps は要求・クリップ・既定値の順にFPSを決める。
func resolveFps(requested float64, clipFps float64) float64 {
	if requested > 0 {
		return requested
	}
	if clipFps > 0 {
		return clipFps
	}
	return DEFAULT_FPS
}

// bakeTimes は0から長さまで 1/fps 刻みの時刻を返す。長さが刻みで割り切れない場合は最終時刻を追加する。
func bakeTimes(duration float64, fps float64) []float64 {
	count := int(math.Floor(duration*fps+bakeTimeEpsilon)) + 1
	times := make([]float64, 0, count+1)
	for i := 0; i < count; i++ {
		times = append(times, float64(i)/fps)
	}
	if duration-times[len(times)-1] > bakeTimeEpsilon {
		times = append(times, duration)
	}
	return times
}

// recordedJoints は記録対象のリタゲ先ボーンindexを返す。除外チェーンのボーンは記録しない。
func recordedJoints(binding *retarget.Binding, excluded map[string]struct{}, keyframeAll bool) []int {
	target := binding.Target
	chainJoints := map[string]struct{}{}
	if !keyframeAll && binding.TargetRig != nil {
		for _, chain := range binding.TargetRig.Chains {
			for _, name := range chain.Joints {
				chainJoints[name] = struct{}{}
			}
		}
	}
	indexes := make([]int, 0, target.Len())
	for index, name := range target.Names() {
		if _, skip := excluded[name]; skip {
			continue
		}
		if !keyframeAll {
			if _, inChain := chainJoints[name]; !inChain {
				continue
			}
		}
		indexes = append(indexes, index)
	}
	return indexes
}

// resolveClipOutputPath は出力クリップパスを解決し、拡張子を検証する。
func resolveClipOutputPath(clipPath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(clipPath)
	}
	if strings.TrimSpace(resolved) == "" {
		return "", fmt.Errorf("保存先クリップパスが未指定です")
	}
	ext := strings.ToLower(filepath.Ext(resolved))
	if ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("保存先拡張子が .yaml ではありません: %s", resolved)
	}
	return resolved, nil
}

// BuildDefaultOutputPath はリタゲ元クリップパスから既定の出力パスを生成する。
func BuildDefaultOutputPath(clipPath string) string {
	if strings.TrimSpace(clipPath) == "" {
		return ""
	}
	dir := filepath.Dir(clipPath)
	base := strings.TrimSuffix(filepath.Base(clipPath), filepath.Ext(clipPath))
	if strings.TrimSpace(base) == "" {
		return ""
	}
	return filepath.Join(dir, base+"_retarget.yaml")
}

// outputClipName は出力クリップ名を生成する。
func outputClipName(clipName string, profileName string) string {
	switch {
	case clipName == "":
		return profileName
	case profileName == "":
		return clipName
	default:
		return clipName + "@" + profileName
	}
}
