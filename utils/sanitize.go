package utils

import "github.com/microcosm-cc/bluemonday"

var ugcPolicy = bluemonday.UGCPolicy()

// RenderHTML returns user text as markup that is safe to embed in a page.
// Stored text is never passed through it; only the rendered view fields are.
func RenderHTML(input string) string {
	return ugcPolicy.Sanitize(input)
}
