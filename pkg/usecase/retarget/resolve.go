// 指示: miu200521358
package retarget

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// chainResolver はチェーン解決と基準姿勢キャッシュを行い、設定不備を蓄積する。
type chainResolver struct {
	feature     string
	diagnostics []Diagnostic
	failed      bool
}

// resolve はチェーン名を骨格上へ解決する。解決できない場合は nil。
func (r *chainResolver) resolve(skeleton *model.Skeleton, rig *model.Rig, chainName string) *model.BoneChain {
	if strings.TrimSpace(chainName) == "" {
		r.fail(model.RetargetWarningChainUnresolved, "チェーン名が未指定です")
		return nil
	}
	chain, missing, err := model.ResolveBoneChain(skeleton, rig, chainName)
	if err != nil {
		r.fail(model.RetargetWarningChainUnresolved, err.Error())
		return nil
	}
	if len(missing) > 0 {
		r.warn(model.RetargetWarningJointMissing,
			fmt.Sprintf("ボーンが見つかりません: chain=%s bones=%s", chainName, strings.Join(missing, ",")))
	}
	if chain.Len() == 0 {
		r.fail(model.RetargetWarningChainEmpty, fmt.Sprintf("解決後のチェーンが空です: %s", chainName))
		return nil
	}
	return chain
}

// cache は基準姿勢をキャッシュする。
func (r *chainResolver) cache(chain *model.BoneChain, skeleton *model.Skeleton, space model.SpaceType) bool {
	if chain == nil {
		return false
	}
	if err := chain.CacheTransforms(skeleton, space); err != nil {
		r.fail(model.RetargetWarningChainUnresolved, err.Error())
		return false
	}
	return true
}

// warn は評価を継続できる設定不備を記録する。
func (r *chainResolver) warn(code string, message string) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Feature: r.feature, Code: code, Message: message})
}

// fail は評価できない設定不備を記録する。
func (r *chainResolver) fail(code string, message string) {
	r.failed = true
	r.warn(code, message)
}

// err は評価できない設定不備をエラーにまとめる。
func (r *chainResolver) err() error {
	if !r.failed {
		return nil
	}
	messages := make([]string, 0, len(r.diagnostics))
	for _, diagnostic := range r.diagnostics {
		messages = append(messages, diagnostic.Message)
	}
	return merr.Errorf(model.ErrorIDFeatureInvalid, "リタゲ機能を初期化できません: %s: %s",
		r.feature, strings.Join(messages, "; "))
}
