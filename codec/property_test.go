//go:build property
// +build property

package codec

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/CreativeUnicorns/prefdoc"
)

// TestRenderReconcileProperties checks round-trip invariants of the
// annotated text form.
func TestRenderReconcileProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: reconciling a freshly rendered tree never reports changes
	// and never marks the text dirty.
	properties.Property("render then reconcile is a fixed point", prop.ForAll(
		func(n int64, s string) bool {
			if strings.ContainsAny(s, "\x00") {
				return true
			}
			g, err := prefdoc.NewGroup(
				prefdoc.NewInt64("Number").WithValue(n).MustBuild(),
				prefdoc.NewString("Text").WithValue(s).MustBuild(),
			)
			if err != nil {
				return false
			}

			c := New()
			text, err := c.Render(g)
			if err != nil {
				return false
			}
			res, err := c.Reconcile(text, g)
			if err != nil {
				return false
			}
			return !res.Dirty && len(res.Changed) == 0 && res.Text == text
		},
		gen.Int64(),
		gen.RegexMatch(`^[a-zA-Z0-9 _./-]*$`),
	))

	// Property: stripping comments from rendered output yields text the
	// plain parser accepts, and parsed leaf values match the live tree.
	properties.Property("rendered values survive the comment strip", prop.ForAll(
		func(n int64) bool {
			g, err := prefdoc.NewGroup(
				prefdoc.NewInt64("Number").WithValueAndAsDefault(n).MustBuild(),
			)
			if err != nil {
				return false
			}

			text, err := New().Render(g)
			if err != nil {
				return false
			}
			parsed, err := Parse(text)
			if err != nil {
				return false
			}
			return parsed.Get("Number").Int() == n
		},
		gen.Int64(),
	))

	// Property: an edited numeric value round-trips through reconcile and
	// a second reconcile of the new rendering reports nothing.
	properties.Property("reconcile converges after one pass", prop.ForAll(
		func(before, after int64) bool {
			g, err := prefdoc.NewGroup(
				prefdoc.NewInt64("Number").WithValue(before).MustBuild(),
			)
			if err != nil {
				return false
			}

			c := New()
			res, err := c.Reconcile(`{"Number": `+strconv.FormatInt(after, 10)+`}`, g)
			if err != nil {
				return false
			}
			v, err := prefdoc.GroupValueAs[int64](g, "Number")
			if err != nil || v != after {
				return false
			}
			again, err := c.Reconcile(res.Text, g)
			if err != nil {
				return false
			}
			return !again.Dirty && len(again.Changed) == 0
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
