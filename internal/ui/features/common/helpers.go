// Package common provides the page shell and components shared by the UI
// features. Components are generated by templ and render minified HTML, so
// each one can be sent as a single datastar element patch.
package common

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/a-h/templ"
)

// RenderString renders c to a string. It is mostly useful in tests.
func RenderString(c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SignalsJSON encodes v for a data-signals attribute.
func SignalsJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// JSString quotes s as a single-quoted JavaScript string for datastar
// expressions.
func JSString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}
