package starlark

import "github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"

// Hook kinds reported by Describe.
const (
	KindBuiltin = "builtin"
	KindCustom  = "custom"
)

// HookInfo describes a registered hook.
type HookInfo struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Path string `json:"path,omitempty"`
}

// Describe lists the hooks in r in registration order, marking the ones
// loaded from .star files as custom.
func Describe(r *inference.Registry) []HookInfo {
	hooks := r.Hooks()
	infos := make([]HookInfo, 0, len(hooks))
	for _, h := range hooks {
		info := HookInfo{ID: string(h.ID()), Kind: KindBuiltin}
		if sh, ok := h.(*Hook); ok {
			info.Kind = KindCustom
			info.Path = sh.Path()
		}
		infos = append(infos, info)
	}
	return infos
}
