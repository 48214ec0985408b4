package starlark

import (
	"go.starlark.net/starlark"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

// Predeclared returns the globals available to every hook file:
//
//	normalize(s)  -> case-folded letters and digits of s
//	tokens(s)     -> list of case-folded words of s
//	ratio(a, b)   -> similarity of a and b in [0, 1]
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"normalize": starlark.NewBuiltin("normalize", normalizeBuiltin),
		"tokens":    starlark.NewBuiltin("tokens", tokensBuiltin),
		"ratio":     starlark.NewBuiltin("ratio", ratioBuiltin),
	}
}

func normalizeBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &s); err != nil {
		return nil, err
	}
	return starlark.String(inference.Normalize(s)), nil
}

func tokensBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &s); err != nil {
		return nil, err
	}
	return GoToStarlark(inference.Tokenize(s))
}

func ratioBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &x, &y); err != nil {
		return nil, err
	}
	return starlark.Float(inference.Ratio(x, y)), nil
}
