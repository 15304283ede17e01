// 指示: miu200521358
// Package chainmap はチェーン名からリタゲ設定の対応候補を提案する。
package chainmap

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nameRule は名前に含まれる語による部位判定規則。
type nameRule struct {
	targets  []string
	sources  []string
	sideless bool
	suffix   bool
}

// nameRules は評価順の部位判定規則。先に一致した規則で判定を確定する。
var nameRules = []nameRule{
	{targets: []string{"root"}, sources: []string{"root"}, sideless: true, suffix: true},
	{targets: []string{"pelvis", "hip"}, sources: []string{"pelvis", "hip"}, sideless: true},
	{targets: []string{"lowerleg"}, sources: []string{"lowerleg"}},
	{targets: []string{"upperleg", "shin", "thigh", "leg"}, sources: []string{"upperleg", "shin", "thigh", "leg"}},
	{targets: []string{"foot", "ball"}, sources: []string{"foot", "ball"}},
	{targets: []string{"spine"}, sources: []string{"spine"}, sideless: true},
	{targets: []string{"neck"}, sources: []string{"neck"}, sideless: true},
	{targets: []string{"head"}, sources: []string{"head"}, sideless: true},
	{targets: []string{"clavicle", "shoulder"}, sources: []string{"clavicle", "shoulder"}},
	{targets: []string{"upperarm"}, sources: []string{"upperarm"}},
	{targets: []string{"lowerarm", "forearm"}, sources: []string{"lowerarm", "forearm"}},
	{targets: []string{"index"}, sources: []string{"index"}},
	{targets: []string{"middle"}, sources: []string{"middle"}},
	{targets: []string{"ring"}, sources: []string{"ring"}},
	{targets: []string{"pinky"}, sources: []string{"pinky"}},
	{targets: []string{"thumb"}, sources: []string{"thumb"}},
	{targets: []string{"finger"}, sources: []string{"finger"}},
	{targets: []string{"hand", "palm"}, sources: []string{"hand", "palm"}},
	{targets: []string{"tail"}, sources: []string{"tail"}, sideless: true},
}

var (
	rightMarkers = []string{"_r", ".r", "right"}
	leftMarkers  = []string{"_l", ".l", "left"}
)

// IsNameMatching はリタゲ元チェーン名 from がリタゲ先チェーン名 to と同じ部位か判定する。
// 左右のある部位は同じ側であることも要求する。
func IsNameMatching(from string, to string) bool {
	from = foldName(from)
	to = foldName(to)

	// リタゲ先は空白区切りの側表記も許容する。
	isToRight := containsAny(to, rightMarkers) || strings.Contains(to, " r")
	isToLeft := containsAny(to, leftMarkers) || strings.Contains(to, " l")
	isFromRight := containsAny(from, rightMarkers)
	isFromLeft := containsAny(from, leftMarkers)
	sameSide := (isToRight && isFromRight) || (isToLeft && isFromLeft)

	for _, rule := range nameRules {
		if !containsAny(to, rule.targets) {
			continue
		}
		if rule.suffix {
			return hasAnySuffix(from, rule.sources)
		}
		if !rule.sideless && !sameSide {
			return false
		}
		return containsAny(from, rule.sources)
	}
	return false
}

// foldName は比較用に名前を小文字化する。
func foldName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

func containsAny(value string, words []string) bool {
	for _, word := range words {
		if strings.Contains(value, word) {
			return true
		}
	}
	return false
}

func hasAnySuffix(value string, words []string) bool {
	for _, word := range words {
		if strings.HasSuffix(value, word) {
			return true
		}
	}
	return false
}
