package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolverFixture(t *testing.T) *Resolver {
	t.Helper()

	todo := NewGroup("todo", nop).Sub(
		New("add", nop).WithAliases("a"),
		New("list", nop).WithAliases("l"),
	)
	claims := NewGroup("claims", nop).Sub(
		New("create", nop),
		New("remove", nop),
		New("list", nop),
	)
	web := NewGroup("web", nop).Sub(
		New("search", nop).WithAliases("s"),
	)

	r := NewRegistry()
	require.NoError(t, r.Register(&Cog{Name: "secretary", Active: true, Commands: []*Command{todo}}))
	require.NoError(t, r.Register(&Cog{Name: "claims", Active: true, Commands: []*Command{claims}}))
	require.NoError(t, r.Register(&Cog{Name: "web", Active: true, Commands: []*Command{web}}))
	return NewResolver(r, "hk ")
}

func TestResolveGroupSubcommand(t *testing.T) {
	r := resolverFixture(t)

	res, err := r.Resolve("hk todo add buy milk")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "todo add", res.Command.QualifiedName())
	assert.Equal(t, []string{"buy", "milk"}, res.Args)
}

func TestResolveGroupBare(t *testing.T) {
	r := resolverFixture(t)

	res, err := r.Resolve("hk todo")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "todo", res.Command.QualifiedName())
	assert.True(t, res.Command.IsGroup())
	assert.Empty(t, res.Args)
}

func TestResolveGroupUnknownSubcommandFallsToGroup(t *testing.T) {
	r := resolverFixture(t)

	res, err := r.Resolve("hk todo buy milk tomorrow")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "todo", res.Command.QualifiedName())
	assert.Equal(t, []string{"buy", "milk", "tomorrow"}, res.Args)
}

func TestResolveSubcommandAlias(t *testing.T) {
	r := resolverFixture(t)

	res, err := r.Resolve("hk todo a buy milk")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "todo add", res.Command.QualifiedName())
	assert.Equal(t, []string{"buy", "milk"}, res.Args)
}

func TestResolvePartialSuffixUnique(t *testing.T) {
	r := resolverFixture(t)

	// Only one registered command ends in "search".
	res, err := r.Resolve("hk search cute huskies")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "web search", res.Command.QualifiedName())
	assert.Equal(t, []string{"cute", "huskies"}, res.Args)
}

func TestResolvePartialSuffixAmbiguous(t *testing.T) {
	r := resolverFixture(t)

	// "todo list" and "claims list" both end in "list"; no longer candidate
	// narrows it down, so resolution must fail carrying both.
	res, err := r.Resolve("hk list")
	assert.Nil(t, res)

	var ambiguous *AmbiguousNameError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "list", ambiguous.Input)
	require.Len(t, ambiguous.Candidates, 2)

	names := []string{
		ambiguous.Candidates[0].QualifiedName(),
		ambiguous.Candidates[1].QualifiedName(),
	}
	assert.ElementsMatch(t, []string{"todo list", "claims list"}, names)
}

func TestResolveSharedAliasAmbiguous(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Cog{
		Name:     "a",
		Active:   true,
		Commands: []*Command{New("alpha", nop).WithAliases("x")},
	}))
	require.NoError(t, reg.Register(&Cog{
		Name:     "b",
		Active:   true,
		Commands: []*Command{New("beta", nop).WithAliases("x")},
	}))
	r := NewResolver(reg, "hk ")

	res, err := r.Resolve("hk x")
	assert.Nil(t, res)

	var ambiguous *AmbiguousNameError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "x", ambiguous.Input)

	names := make([]string, len(ambiguous.Candidates))
	for i, c := range ambiguous.Candidates {
		names[i] = c.QualifiedName()
	}
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestResolveSharedChildAliasAmbiguous(t *testing.T) {
	group := NewGroup("todo", nop).Sub(
		New("add", nop).WithAliases("z"),
		New("archive", nop).WithAliases("z"),
	)
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Cog{Name: "secretary", Active: true, Commands: []*Command{group}}))
	r := NewResolver(reg, "hk ")

	res, err := r.Resolve("hk todo z now")
	assert.Nil(t, res)

	var ambiguous *AmbiguousNameError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "todo z", ambiguous.Input)
	require.Len(t, ambiguous.Candidates, 2)
}

func TestResolveSuffixIsTokenBounded(t *testing.T) {
	r := resolverFixture(t)

	// "ist" is a non-boundary suffix of two qualified names and must not match.
	res, err := r.Resolve("hk ist")
	assert.Nil(t, res)
	assert.NoError(t, err)
}

func TestResolveNoPrefix(t *testing.T) {
	r := resolverFixture(t)

	res, err := r.Resolve("good morning everyone")
	assert.Nil(t, res)
	assert.NoError(t, err)
}

func TestResolveNothingAfterPrefix(t *testing.T) {
	r := resolverFixture(t)

	res, err := r.Resolve("hk ")
	assert.Nil(t, res)
	assert.NoError(t, err)
}

func TestResolveUnknownName(t *testing.T) {
	r := resolverFixture(t)

	res, err := r.Resolve("hk frobnicate the thing")
	assert.Nil(t, res)
	assert.NoError(t, err)
}
