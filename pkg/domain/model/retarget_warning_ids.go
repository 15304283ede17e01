// 指示: miu200521358
package model

const (
	// RetargetWarningChainUnresolved はチェーン定義が見つからない警告。
	RetargetWarningChainUnresolved = "RetargetWarningChainUnresolved"
	// RetargetWarningJointMissing はチェーン内ボーン名が骨格に存在しない警告。
	RetargetWarningJointMissing = "RetargetWarningJointMissing"
	// RetargetWarningChainEmpty は解決後チェーンが空の警告。
	RetargetWarningChainEmpty = "RetargetWarningChainEmpty"
	// RetargetWarningChainTooShort はIKに必要な関節数が不足している警告。
	RetargetWarningChainTooShort = "RetargetWarningChainTooShort"
	// RetargetWarningChainSizeMismatch は同数であるべきチェーンの関節数が異なる警告。
	RetargetWarningChainSizeMismatch = "RetargetWarningChainSizeMismatch"
	// RetargetWarningPoseJointMissing は姿勢定義のボーンが骨格に存在しない警告。
	RetargetWarningPoseJointMissing = "RetargetWarningPoseJointMissing"
	// RetargetWarningWeightClamped は重みが 0-1 に丸められた警告。
	RetargetWarningWeightClamped = "RetargetWarningWeightClamped"
)

// エラーID一覧。
const (
	// ErrorIDJointDuplicated はボーン名重複。
	ErrorIDJointDuplicated = "21001"
	// ErrorIDJointParentMissing は親ボーン未定義。
	ErrorIDJointParentMissing = "21002"
	// ErrorIDChainDuplicated はチェーン名重複。
	ErrorIDChainDuplicated = "21003"
	// ErrorIDChainInvalid はチェーン定義不正。
	ErrorIDChainInvalid = "21004"
	// ErrorIDChainAlreadyCached は基準姿勢の再キャッシュ。
	ErrorIDChainAlreadyCached = "21005"
	// ErrorIDFeatureInvalid はリタゲ機能設定不正。
	ErrorIDFeatureInvalid = "22001"
	// ErrorIDSessionState はセッション状態不正。
	ErrorIDSessionState = "22002"
	// ErrorIDFileNotFound は入力ファイル未検出。
	ErrorIDFileNotFound = "23001"
	// ErrorIDFileParseFailed は入力ファイル解析失敗。
	ErrorIDFileParseFailed = "23002"
	// ErrorIDFileExtInvalid は拡張子不正。
	ErrorIDFileExtInvalid = "23003"
)
