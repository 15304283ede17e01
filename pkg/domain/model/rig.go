// 指示: miu200521358
package model

import (
	"strings"

	"github.com/miu200521358/mu_retarget/pkg/shared/base/merr"
)

// ChainDefinition はチェーン名と関節名の順序付き一覧。
type ChainDefinition struct {
	Name   string
	Joints []string
}

// Rig は1骨格アセット分のチェーン定義集合。実行時は読み取り専用。
type Rig struct {
	Name   string
	Chains []ChainDefinition
}

// NewRig はリグ定義を生成する。
func NewRig(name string) *Rig {
	return &Rig{Name: name}
}

// AddChain はチェーン定義を追加する。
func (r *Rig) AddChain(name string, joints ...string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return merr.NewError(ErrorIDChainInvalid, "チェーン名が空です", nil)
	}
	if _, exists := r.Chain(name); exists {
		return merr.Errorf(ErrorIDChainDuplicated, "チェーン名が重複しています: %s", name)
	}
	r.Chains = append(r.Chains, ChainDefinition{Name: name, Joints: append([]string(nil), joints...)})
	return nil
}

// Chain はチェーン名から定義を返す。
func (r *Rig) Chain(name string) (ChainDefinition, bool) {
	if r == nil {
		return ChainDefinition{}, false
	}
	for _, chain := range r.Chains {
		if chain.Name == name {
			return chain, true
		}
	}
	return ChainDefinition{}, false
}

// ChainNames はチェーン名を定義順で返す。
func (r *Rig) ChainNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Chains))
	for _, chain := range r.Chains {
		names = append(names, chain.Name)
	}
	return names
}

// Validate はチェーン名の一意性と関節名の非空を検証する。
func (r *Rig) Validate() error {
	if r == nil {
		return merr.NewError(ErrorIDChainInvalid, "リグ定義がありません", nil)
	}
	seen := map[string]struct{}{}
	for _, chain := range r.Chains {
		if strings.TrimSpace(chain.Name) == "" {
			return merr.NewError(ErrorIDChainInvalid, "チェーン名が空です", nil)
		}
		if _, exists := seen[chain.Name]; exists {
			return merr.Errorf(ErrorIDChainDuplicated, "チェーン名が重複しています: %s", chain.Name)
		}
		seen[chain.Name] = struct{}{}
		for _, joint := range chain.Joints {
			if strings.TrimSpace(joint) == "" {
				return merr.Errorf(ErrorIDChainInvalid, "チェーン内のボーン名が空です: %s", chain.Name)
			}
		}
	}
	return nil
}
