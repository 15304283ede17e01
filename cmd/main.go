// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_retarget/pkg/adapter/io_profile"
	"github.com/miu200521358/mu_retarget/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_retarget/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/config"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/logging"
	"github.com/miu200521358/mu_retarget/pkg/usecase/minteractor"
)

// options はCLI引数を保持する。
type options struct {
	profilePath   string
	clipPath      string
	outputPath    string
	fps           float64
	maxIterations int
	tolerance     float64
	keyframeAll   bool
	rootMotion    bool
	logLevel      string
	verbose       bool
}

// main はプロファイルに従ってクリップをリタゲし、焼き込み結果を保存する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageConfigFailed, err)
	}
	opts, err := parseOptions(args, cfg, errOut)
	if err != nil {
		return err
	}
	if err := setupLogger(opts, errOut); err != nil {
		return err
	}

	repository := io_profile.NewProfileRepository()
	usecase := minteractor.NewRetargetUsecase(minteractor.RetargetUsecaseDeps{
		ProfileReader: repository,
		ClipReader:    repository,
		ClipWriter:    repository,
	})

	fmt.Fprintf(out, messages.LogBakeStart+"\n", opts.profilePath)
	result, err := usecase.Bake(minteractor.BakeRequest{
		ProfilePath:      opts.profilePath,
		ClipPath:         opts.clipPath,
		OutputPath:       opts.outputPath,
		Fps:              opts.fps,
		MaxIterations:    opts.maxIterations,
		Tolerance:        opts.tolerance,
		KeyframeAll:      opts.keyframeAll,
		RootMotion:       opts.rootMotion,
		ProgressReporter: newProgressPrinter(out),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageBakeFailed, err)
	}
	for _, name := range result.InvalidFeatures {
		fmt.Fprintf(out, messages.LogInvalidFeature+"\n", name)
	}
	for _, diagnostic := range result.Diagnostics {
		fmt.Fprintf(out, messages.LogDiagnosticWarning+"\n", diagnostic.String())
	}
	fmt.Fprintf(out, messages.LogBakeSuccess+"\n", result.OutputPath, result.FrameCount)
	return nil
}

// parseOptions はCLI引数を解析する。未指定の値は環境変数由来の設定を使う。
func parseOptions(args []string, cfg config.Config, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("mu_retarget", flag.ContinueOnError)
	fs.SetOutput(errOut)

	opts := options{}
	fs.StringVar(&opts.profilePath, "profile", "", messages.LabelProfileTip)
	fs.StringVar(&opts.clipPath, "clip", "", messages.LabelClipTip)
	fs.StringVar(&opts.outputPath, "out", "", messages.LabelOutputTip)
	fs.Float64Var(&opts.fps, "fps", cfg.Fps, messages.LabelFps)
	fs.IntVar(&opts.maxIterations, "max-iterations", cfg.MaxIterations, messages.LabelMaxIterations)
	fs.Float64Var(&opts.tolerance, "tolerance", cfg.Tolerance, messages.LabelTolerance)
	fs.BoolVar(&opts.keyframeAll, "keyframe-all", cfg.KeyframeAll, messages.LabelKeyframeAll)
	fs.BoolVar(&opts.rootMotion, "root-motion", cfg.RootMotion, messages.LabelRootMotion)
	fs.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, messages.LabelLogLevel)
	fs.BoolVar(&opts.verbose, "verbose", cfg.Verbose, messages.LabelVerbose)
	fs.Usage = func() {
		fmt.Fprintf(errOut, "%s: %s\n", messages.HelpUsageTitle, messages.HelpUsage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	positionals := fs.Args()
	if opts.profilePath == "" && len(positionals) > 0 {
		opts.profilePath, positionals = positionals[0], positionals[1:]
	}
	if opts.clipPath == "" && len(positionals) > 0 {
		opts.clipPath, positionals = positionals[0], positionals[1:]
	}
	if opts.outputPath == "" && len(positionals) > 0 {
		opts.outputPath, positionals = positionals[0], positionals[1:]
	}
	if len(positionals) > 0 {
		return options{}, fmt.Errorf("%s: %s", messages.MessageTooManyArgs, strings.Join(positionals, " "))
	}
	if strings.TrimSpace(opts.profilePath) == "" {
		return options{}, errors.New(messages.MessageProfileRequired + " (-profile)")
	}
	ext := strings.ToLower(filepath.Ext(opts.profilePath))
	if ext != ".yaml" && ext != ".yml" {
		return options{}, fmt.Errorf("%s: %s", messages.MessageProfileExtNeeded, opts.profilePath)
	}
	if err := (config.Config{
		Fps:           opts.fps,
		MaxIterations: opts.maxIterations,
		Tolerance:     opts.tolerance,
	}).Validate(); err != nil {
		return options{}, err
	}
	return opts, nil
}

// setupLogger は既定ロガーを生成して登録する。
func setupLogger(opts options, errOut io.Writer) error {
	level, err := logging.ParseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := mlogging.NewLogger(errOut)
	logger.SetLevel(level)
	if opts.verbose {
		logger.EnableVerbose(logging.VERBOSE_INDEX_RETARGET, true)
		logger.EnableVerbose(logging.VERBOSE_INDEX_IK, true)
		logger.EnableVerbose(logging.VERBOSE_INDEX_BAKE, true)
	}
	logging.SetDefaultLogger(logger)
	return nil
}
