// 指示: miu200521358
// Package messages はCLI表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	HelpUsageTitle = "使い方"
	HelpUsage      = "mu_retarget -profile <プロファイル.yaml> [-clip <クリップ.yaml>] [-out <出力.yaml>]"

	LabelProfile       = "プロファイル"
	LabelProfileTip    = "リタゲ元/先のスケルトン・リグ・フィーチャーを記述したYAML"
	LabelClip          = "リタゲ元クリップ"
	LabelClipTip       = "空の場合はプロファイル内の clip を使う"
	LabelOutput        = "出力クリップ"
	LabelOutputTip     = "空の場合はリタゲ元クリップと同じ場所へ _retarget.yaml で出力する"
	LabelFps           = "焼き込みFPS。0ならリタゲ元クリップのFPS"
	LabelMaxIterations = "IK最大反復回数"
	LabelTolerance     = "IK許容誤差"
	LabelKeyframeAll   = "全ボーン記録"
	LabelRootMotion    = "ルートモーション記録"
	LabelLogLevel      = "ログレベル"
	LabelVerbose       = "冗長ログ"

	MessageConfigFailed     = "設定読み込み失敗"
	MessageProfileRequired  = "プロファイルを指定してください"
	MessageProfileExtNeeded = "プロファイルは .yaml または .yml を指定してください"
	MessageTooManyArgs      = "引数が多すぎます"
	MessageBakeFailed       = "焼き込み失敗"

	LogBakeStart          = "[mu_retarget] 焼き込み開始: %s"
	LogProfileLoaded      = "[mu_retarget] プロファイル読み込み成功"
	LogClipLoaded         = "[mu_retarget] クリップ読み込み成功"
	LogSessionInitialized = "[mu_retarget] セッション初期化完了"
	LogFrameBaked         = "[mu_retarget] フレーム焼き込み: %d/%d"
	LogBakeSuccess        = "[mu_retarget] クリップ保存成功: %s (フレーム数=%d)"
	LogInvalidFeature     = "[mu_retarget] 無効フィーチャー: %s"
	LogDiagnosticWarning  = "[mu_retarget] 警告: %s"
)
