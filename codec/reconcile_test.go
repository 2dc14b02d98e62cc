package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/prefdoc"
)

func TestReconcileIdenticalTextReportsNoChanges(t *testing.T) {
	c := New()
	g := numberAndString(t)

	text, err := c.Render(g)
	require.NoError(t, err)

	res, err := c.Reconcile(text, g)
	require.NoError(t, err)
	assert.False(t, res.Dirty)
	assert.Empty(t, res.Changed)
	assert.Equal(t, text, res.Text)
}

func TestReconcileIsIdempotent(t *testing.T) {
	c := New()
	g := numberAndString(t)
	require.NoError(t, g.SetValue("Number", int64(21)))

	first, err := c.Render(g)
	require.NoError(t, err)

	res, err := c.Reconcile(first, g)
	require.NoError(t, err)
	assert.False(t, res.Dirty)

	second, err := c.Render(g)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReconcileAppliesEditedValues(t *testing.T) {
	c := New()
	g := numberAndString(t)

	text := "{\n" +
		"    // stale comment, regenerated on output\n" +
		"    \"Number\": 42,\n" +
		"    \"String\": \"hello\"\n" +
		"}"

	res, err := c.Reconcile(text, g)
	require.NoError(t, err)
	assert.True(t, res.Dirty)
	assert.Equal(t, []string{"Number", "String"}, res.Changed)

	n, err := prefdoc.GroupValueAs[int64](g, "Number")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	s, err := prefdoc.GroupValueAs[string](g, "String")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	// Output carries freshly generated comments, not the stale ones.
	assert.NotContains(t, res.Text, "stale comment")
	assert.Contains(t, res.Text, "// Default value: 13.")
	assert.Contains(t, res.Text, "// A string preference.")
}

func TestReconcileSwallowsBadLeaves(t *testing.T) {
	c := New()
	g := numberAndString(t)
	require.NoError(t, g.SetValue("Number", int64(5)))

	// A string where a number is expected: the prior value is retained
	// and the remaining fields still reconcile.
	text := `{"Number": "not a number", "String": "ok"}`

	res, err := c.Reconcile(text, g)
	require.NoError(t, err)
	assert.Equal(t, []string{"String"}, res.Changed)

	n, err := prefdoc.GroupValueAs[int64](g, "Number")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestReconcileRetainsValueOnConstraintViolation(t *testing.T) {
	c := New()
	p := prefdoc.NewString("Theme").
		WithAllowedValues("light", "dark").
		AllowOnlyDefinedValues().
		WithValue("light").
		MustBuild()
	g, err := prefdoc.NewGroup(p)
	require.NoError(t, err)

	res, err := c.Reconcile(`{"Theme": "sepia"}`, g)
	require.NoError(t, err)
	assert.Empty(t, res.Changed)

	v, err := prefdoc.GroupValueAs[string](g, "Theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestReconcileEmptyAndIncompatibleInput(t *testing.T) {
	c := New()

	for _, text := range []string{"", "   ", "[1, 2, 3]", `"just a string"`} {
		g := numberAndString(t)
		res, err := c.Reconcile(text, g)
		require.NoError(t, err, "input %q", text)
		assert.Empty(t, res.Changed, "input %q", text)
		assert.True(t, res.Dirty, "rendered form differs from input %q", text)
	}
}

func TestReconcileMalformedInputSurfacesParseError(t *testing.T) {
	c := New()
	g := numberAndString(t)

	_, err := c.Reconcile("{ not json", g)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestReconcileMissingKeysLeaveValues(t *testing.T) {
	c := New()
	g := numberAndString(t)
	require.NoError(t, g.SetValue("Number", int64(9)))

	res, err := c.Reconcile(`{"String": "present"}`, g)
	require.NoError(t, err)
	assert.Equal(t, []string{"String"}, res.Changed)

	n, err := prefdoc.GroupValueAs[int64](g, "Number")
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}

func TestReconcileExplicitNullClearsValue(t *testing.T) {
	c := New()
	g := numberAndString(t)
	require.NoError(t, g.SetValue("Number", int64(9)))

	res, err := c.Reconcile(`{"Number": null, "String": null}`, g)
	require.NoError(t, err)
	assert.Equal(t, []string{"Number"}, res.Changed)

	p, err := g.Get("Number")
	require.NoError(t, err)
	assert.False(t, p.HasValue())
}

func TestReconcileNestedStorePaths(t *testing.T) {
	c := New()
	editor, err := prefdoc.NewGroup(prefdoc.NewInt64("TabWidth").WithValue(4).MustBuild())
	require.NoError(t, err)
	inner := prefdoc.NewStore()
	require.NoError(t, inner.AddGroup("Editor", editor))
	root := prefdoc.NewStore()
	require.NoError(t, root.AddStore("Workspace", inner))
	require.NoError(t, root.AddPreference(prefdoc.NewBool("Enabled").WithValue(false).MustBuild()))

	text := `{"Workspace": {"Editor": {"TabWidth": 8}}, "Enabled": true}`

	res, err := c.Reconcile(text, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Workspace.Editor.TabWidth", "Enabled"}, res.Changed)
}

func TestReconcileGroupArrayByIndex(t *testing.T) {
	c := New()
	first, err := prefdoc.NewGroup(prefdoc.NewString("Host").WithValue("a").MustBuild())
	require.NoError(t, err)
	second, err := prefdoc.NewGroup(prefdoc.NewString("Host").WithValue("b").MustBuild())
	require.NoError(t, err)
	root := prefdoc.NewStore()
	require.NoError(t, root.AddGroups("Servers", []*prefdoc.Group{first, second}))

	text := `{"Servers": [{"Host": "x"}, {"Host": "y"}, {"Host": "ignored"}]}`

	res, err := c.Reconcile(text, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Servers.Host", "Servers.Host"}, res.Changed)

	h, err := prefdoc.GroupValueAs[string](first, "Host")
	require.NoError(t, err)
	assert.Equal(t, "x", h)
}

func TestReconcileTopLevelGroupArray(t *testing.T) {
	c := New()
	first, err := prefdoc.NewGroup(prefdoc.NewString("Host").WithValue("a").MustBuild())
	require.NoError(t, err)
	second, err := prefdoc.NewGroup(prefdoc.NewString("Host").WithValue("b").MustBuild())
	require.NoError(t, err)
	root := []*prefdoc.Group{first, second}

	text := `[{"Host": "x"}, {"Host": "y"}, {"Host": "ignored"}]`

	res, err := c.Reconcile(text, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Host", "Host"}, res.Changed)

	h, err := prefdoc.GroupValueAs[string](first, "Host")
	require.NoError(t, err)
	assert.Equal(t, "x", h)

	h, err = prefdoc.GroupValueAs[string](second, "Host")
	require.NoError(t, err)
	assert.Equal(t, "y", h)
}

func TestReconcileTopLevelArrayIgnoresObjectInput(t *testing.T) {
	c := New()
	g, err := prefdoc.NewGroup(prefdoc.NewString("Host").WithValue("a").MustBuild())
	require.NoError(t, err)

	res, err := c.Reconcile(`{"Host": "x"}`, []*prefdoc.Group{g})
	require.NoError(t, err)
	assert.Empty(t, res.Changed)

	h, err := prefdoc.GroupValueAs[string](g, "Host")
	require.NoError(t, err)
	assert.Equal(t, "a", h)
}

func TestReconcileBarePreference(t *testing.T) {
	c := New()
	p := prefdoc.NewInt64("Number").WithDefaultValue(13).MustBuild()

	res, err := c.Reconcile("21", p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Number"}, res.Changed)

	v, err := prefdoc.ValueOf[int64](p)
	require.NoError(t, err)
	assert.Equal(t, int64(21), v)
}
