// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_retarget/pkg/adapter/io_profile"
	"github.com/miu200521358/mu_retarget/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
)

// batchConfig はバッチ焼き込みの実行設定を表す。
type batchConfig struct {
	OutputRoot   string
	DryRun       bool
	FailFast     bool
	Fps          float64
	RootMotion   bool
	ProfilePaths []string
}

// bakeEntry は1プロファイル分の焼き込み入力情報を表す。
type bakeEntry struct {
	Index       int
	ProfilePath string
	ProfileName string
	CaseDir     string
	OutputPath  string
}

// bakeResult は1プロファイル分の焼き込み結果を表す。
type bakeResult struct {
	Entry        bakeEntry
	Status       string
	Duration     time.Duration
	Err          error
	FrameCount   int
	InvalidCount int
	StageInfo    string
}

// bakeProgressCollector は Bake の進捗イベントを収集する。
type bakeProgressCollector struct {
	eventCounts map[minteractor.BakeProgressEventType]int
	frameMax    int
}

// main はプロファイル一覧を順に焼き込む。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括焼き込みを実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildBakeEntries(config.OutputRoot, config.ProfilePaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "焼き込み対象プロファイルがありません")
		return 2
	}

	results := executeBatchBake(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "焼き込み結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "実焼き込みせず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	fps := flag.Float64("fps", 0, "焼き込みFPS。0ならクリップのFPS")
	rootMotion := flag.Bool("root-motion", false, "ルートモーションを記録する")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	if *fps < 0 {
		return batchConfig{}, fmt.Errorf("fps が負の値です: %v", *fps)
	}
	return batchConfig{
		OutputRoot:   filepath.Clean(trimmedOutputRoot),
		DryRun:       *dryRun,
		FailFast:     *failFast,
		Fps:          *fps,
		RootMotion:   *rootMotion,
		ProfilePaths: flag.Args(),
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "output"), nil
}

// buildBakeEntries はプロファイルパス一覧から焼き込み対象エントリを生成する。
func buildBakeEntries(outputRoot string, profilePaths []string) []bakeEntry {
	entries := make([]bakeEntry, 0, len(profilePaths))
	for i, rawPath := range profilePaths {
		profileName := resolveProfileName(rawPath)
		safeName := sanitizePathComponent(profileName)
		caseDir := filepath.Join(outputRoot, fmt.Sprintf("%03d_%s", i+1, safeName))
		entries = append(entries, bakeEntry{
			Index:       i + 1,
			ProfilePath: normalizeInputPath(rawPath),
			ProfileName: profileName,
			CaseDir:     caseDir,
			OutputPath:  filepath.Join(caseDir, safeName+"_retarget.yaml"),
		})
	}
	return entries
}

// executeBatchBake は全プロファイルの焼き込みを順次実行する。
func executeBatchBake(config batchConfig, entries []bakeEntry) []bakeResult {
	results := make([]bakeResult, 0, len(entries))
	repository := io_profile.NewProfileRepository()
	usecase := minteractor.NewRetargetUsecase(minteractor.RetargetUsecaseDeps{
		ProfileReader: repository,
		ClipReader:    repository,
		ClipWriter:    repository,
	})

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 焼き込み開始: profile=%s\n", entry.Index, total, entry.ProfileName)
		result := bakeProfileEntry(usecase, config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 焼き込み成功: profile=%s output=%s frames=%d invalid=%d elapsed=%s\n",
				entry.Index, total, entry.ProfileName, entry.OutputPath, result.FrameCount, result.InvalidCount,
				result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.StageInfo) != "" {
				fmt.Printf("[%d/%d] Bake進捗: %s\n", entry.Index, total, result.StageInfo)
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: profile=%s input=%s output=%s\n", entry.Index, total, entry.ProfileName, entry.ProfilePath, entry.OutputPath)
		case "skipped_missing":
			fmt.Printf("[%d/%d] 入力不足でスキップ: profile=%s input=%s reason=%v\n", entry.Index, total, entry.ProfileName, entry.ProfilePath, result.Err)
		default:
			fmt.Printf("[%d/%d] 焼き込み失敗: profile=%s reason=%v\n", entry.Index, total, entry.ProfileName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// bakeProfileEntry は1プロファイル分の焼き込みを実行する。
func bakeProfileEntry(usecase *minteractor.RetargetUsecase, config batchConfig, entry bakeEntry) bakeResult {
	result := bakeResult{
		Entry:  entry,
		Status: "failed",
	}
	if _, err := os.Stat(entry.ProfilePath); err != nil {
		result.Status = "skipped_missing"
		result.Err = err
		return result
	}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	collector := newBakeProgressCollector()
	baked, err := usecase.Bake(minteractor.BakeRequest{
		ProfilePath:      entry.ProfilePath,
		OutputPath:       entry.OutputPath,
		Fps:              config.Fps,
		KeyframeAll:      true,
		RootMotion:       config.RootMotion,
		ProgressReporter: collector,
	})
	if err != nil {
		result.Err = fmt.Errorf("Bakeに失敗しました: %w", err)
		return result
	}
	if baked == nil || baked.Clip == nil {
		result.Err = errors.New("Bake結果が空です")
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.FrameCount = baked.FrameCount
	result.InvalidCount = len(baked.InvalidFeatures)
	result.StageInfo = collector.Summary()
	return result
}

// printBatchSummary は焼き込み結果の集計を標準出力へ表示する。
func printBatchSummary(results []bakeResult) {
	succeeded := 0
	failed := 0
	skipped := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		case "skipped_missing":
			skipped++
		default:
			failed++
		}
	}
	fmt.Printf(
		"バッチ焼き込みサマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		skipped,
		dryRun,
	)
}

// resolveProfileName は入力パスから拡張子を除いたプロファイル名を返す。
func resolveProfileName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		return "profile"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(trimmed))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	if runtime.GOOS != "linux" {
		return path
	}
	if len(path) < 2 || path[1] != ':' {
		return path
	}
	drive := strings.ToLower(path[:1])
	rest := strings.ReplaceAll(path[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "profile"
	}
	return replaced
}

// newBakeProgressCollector は Bake 進捗収集器を生成する。
func newBakeProgressCollector() *bakeProgressCollector {
	return &bakeProgressCollector{
		eventCounts: map[minteractor.BakeProgressEventType]int{},
	}
}

// ReportBakeProgress は Bake の進捗イベントを収集する。
func (collector *bakeProgressCollector) ReportBakeProgress(event minteractor.BakeProgressEvent) {
	if collector == nil {
		return
	}
	collector.eventCounts[event.Type]++
	if event.FrameCount > collector.frameMax {
		collector.frameMax = event.FrameCount
	}
}

// Summary は収集した進捗の要約文字列を返す。
func (collector *bakeProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, fmt.Sprintf("%s=%d", stageType, collector.eventCounts[stageType]))
	}
	sort.Strings(types)
	return fmt.Sprintf("frameMax=%d stages=%s", collector.frameMax, strings.Join(types, ","))
}
