// Package assets finds chapter images. Image key maps to a base path without
// extension, candidates with every configured extension are probed one after
// another until one of them loads.
package assets

import (
	"strings"
)

// DefaultExtensions is probing order used when configuration does not
// specify one.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "svg", "webp"}

// Candidates builds fresh list of paths to probe for base path, one per
// extension, in extension order.
func Candidates(base string, exts []string) []string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	res := make([]string, 0, len(exts))
	for _, ext := range exts {
		res = append(res, base+"."+strings.TrimPrefix(ext, "."))
	}
	return res
}
