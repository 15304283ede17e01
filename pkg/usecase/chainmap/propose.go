// 指示: miu200521358
package chainmap

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/usecase/retarget"
)

// ChainPair は対応付けの提案1件。
type ChainPair struct {
	SourceChain string
	TargetChain string
}

// ProposeBasicChains はリタゲ先の各チェーンに名前が一致するリタゲ元チェーンを提案する。
// 候補のないリタゲ先チェーンは unmatched に入る。
func ProposeBasicChains(sourceRig *model.Rig, targetRig *model.Rig) (pairs []ChainPair, unmatched []string) {
	pairs = make([]ChainPair, 0)
	unmatched = make([]string, 0)
	if sourceRig == nil || targetRig == nil {
		return pairs, unmatched
	}
	sourceNames := sourceRig.ChainNames()
	for _, targetName := range targetRig.ChainNames() {
		matched := false
		for _, sourceName := range sourceNames {
			if IsNameMatching(sourceName, targetName) {
				pairs = append(pairs, ChainPair{SourceChain: sourceName, TargetChain: targetName})
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, targetName)
		}
	}
	logChainMapInfo("チェーン対応候補: matched=%d unmatched=%d", len(pairs), len(unmatched))
	return pairs, unmatched
}

// ProposeBasicFeatures は対応候補から既定値の転写設定を生成する。
func ProposeBasicFeatures(sourceRig *model.Rig, targetRig *model.Rig) []retarget.Feature {
	pairs, _ := ProposeBasicChains(sourceRig, targetRig)
	features := make([]retarget.Feature, 0, len(pairs))
	for _, pair := range pairs {
		features = append(features, retarget.NewBasicFeature(pair.SourceChain, pair.TargetChain))
	}
	return features
}

// WeaponGripProposal は武器グリップ設定の提案。
// 武器チェーンがリグに無い場合は骨格から見つけたボーンで新しいチェーン定義を作る。
type WeaponGripProposal struct {
	Feature retarget.WeaponGripFeature
	// SourceChains はリタゲ元リグへ追加すべきチェーン定義。
	SourceChains []model.ChainDefinition
	// TargetChains はリタゲ先リグへ追加すべきチェーン定義。
	TargetChains []model.ChainDefinition
	// Missing は候補が見つからなかった項目名。
	Missing []string
}

const weaponChainPrefix = "weapon"

var (
	weaponWords  = []string{"gun", "weapon"}
	armWords     = []string{"clavicle", "shoulder", "arm"}
	leftQueries  = []string{"left_", "left", "_l"}
	rightQueries = []string{"right_", "right", "_r"}
)

// ProposeWeaponGrip は武器ボーンと左右の腕チェーンの候補を提案する。
func ProposeWeaponGrip(
	sourceRig *model.Rig,
	targetRig *model.Rig,
	sourceSkeleton *model.Skeleton,
	targetSkeleton *model.Skeleton,
) WeaponGripProposal {
	proposal := WeaponGripProposal{
		Feature: retarget.WeaponGripFeature{FeatureWeight: 1},
	}
	var chain *model.ChainDefinition
	proposal.Feature.SourceWeapon, chain = findWeaponChain(sourceRig, sourceSkeleton)
	if chain != nil {
		proposal.SourceChains = append(proposal.SourceChains, *chain)
	}
	proposal.Feature.TargetWeapon, chain = findWeaponChain(targetRig, targetSkeleton)
	if chain != nil {
		proposal.TargetChains = append(proposal.TargetChains, *chain)
	}
	proposal.Feature.SourceLeftArm = findArmChain(sourceRig, leftQueries)
	proposal.Feature.SourceRightArm = findArmChain(sourceRig, rightQueries)
	proposal.Feature.TargetLeftArm = findArmChain(targetRig, leftQueries)
	proposal.Feature.TargetRightArm = findArmChain(targetRig, rightQueries)

	for _, field := range []struct {
		key   string
		value string
	}{
		{"source_weapon", proposal.Feature.SourceWeapon},
		{"target_weapon", proposal.Feature.TargetWeapon},
		{"source_left_arm", proposal.Feature.SourceLeftArm},
		{"source_right_arm", proposal.Feature.SourceRightArm},
		{"target_left_arm", proposal.Feature.TargetLeftArm},
		{"target_right_arm", proposal.Feature.TargetRightArm},
	} {
		if field.value == "" {
			proposal.Missing = append(proposal.Missing, field.key)
		}
	}
	if len(proposal.Missing) > 0 {
		logChainMapWarn("武器グリップ候補が不足しています: %v", proposal.Missing)
	}
	return proposal
}

// findWeaponChain は武器チェーンを探す。リグに無ければ骨格のボーンから1関節のチェーンを作る。
func findWeaponChain(rig *model.Rig, skeleton *model.Skeleton) (string, *model.ChainDefinition) {
	if rig != nil {
		for _, name := range rig.ChainNames() {
			if containsAny(foldName(name), weaponWords) {
				return name, nil
			}
		}
	}
	if skeleton == nil {
		return "", nil
	}
	for _, name := range skeleton.Names() {
		if !containsAny(foldName(name), weaponWords) {
			continue
		}
		chainName := name
		if rig != nil {
			if _, exists := rig.Chain(chainName); exists {
				chainName = weaponChainPrefix + "_" + name
			}
		}
		return chainName, &model.ChainDefinition{Name: chainName, Joints: []string{name}}
	}
	return "", nil
}

// findArmChain は腕系のチェーンから側の語を含む最初のものを返す。
func findArmChain(rig *model.Rig, queries []string) string {
	if rig == nil {
		return ""
	}
	for _, name := range rig.ChainNames() {
		folded := foldName(name)
		if !containsAny(folded, armWords) {
			continue
		}
		if containsAny(folded, queries) {
			return name
		}
	}
	return ""
}
