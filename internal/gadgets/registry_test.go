package gadgets

import (
	"testing"

	"github.com/danmuck/dbgadgets/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGadget struct {
	meta Metadata
}

func (f fakeGadget) Metadata() Metadata {
	return f.meta
}

func (f fakeGadget) Operations() []OperationSpec {
	return []OperationSpec{{Name: "status", Description: "fake status", Idempotent: true}}
}

func (f fakeGadget) Execute(action string, args map[string]string) (Result, error) {
	return Result{Status: "ok"}, nil
}

func TestRegisterResolveAndDuplicate(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	g := fakeGadget{meta: Metadata{ID: "gadget.fake", Name: "Fake", Description: "Deterministic fake gadget"}}

	require.NoError(t, r.Register(g))
	assert.ErrorIs(t, r.Register(g), ErrGadgetExists)

	got, ok := r.Resolve(" gadget.fake ")
	require.True(t, ok)
	assert.Equal(t, "gadget.fake", got.Metadata().ID)

	_, ok = r.Resolve("gadget.missing")
	assert.False(t, ok)
}

func TestListMetadataSorted(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	for _, id := range []string{"gadget.z", "gadget.a", "gadget.m"} {
		require.NoError(t, r.Register(fakeGadget{meta: Metadata{ID: id, Name: id, Description: id}}))
	}

	var ids []string
	for _, meta := range r.ListMetadata() {
		ids = append(ids, meta.ID)
	}
	assert.Equal(t, []string{"gadget.a", "gadget.m", "gadget.z"}, ids)
}

func TestValidateMetadataFailures(t *testing.T) {
	testlog.Start(t)
	cases := []Metadata{
		{ID: "", Name: "Fake", Description: "x"},
		{ID: "gadget.fake", Name: "", Description: "x"},
		{ID: "gadget.fake", Name: "Fake", Description: ""},
		{ID: "Gadget.Fake", Name: "Fake", Description: "x"},
		{ID: ".gadget.fake", Name: "Fake", Description: "x"},
		{ID: "gadget.fake-", Name: "Fake", Description: "x"},
		{ID: "gadget..fake", Name: "Fake", Description: "x"},
	}
	for _, meta := range cases {
		assert.ErrorIs(t, ValidateMetadata(meta), ErrInvalidMetadata, "meta=%+v", meta)
	}
}

func TestRegisterNilAndInvalid(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	assert.ErrorIs(t, r.Register(nil), ErrGadgetNil)
	assert.ErrorIs(t, r.Register(fakeGadget{meta: Metadata{ID: "Bad.ID", Name: "Bad", Description: "bad"}}), ErrInvalidMetadata)
}

func TestBuildRegistry(t *testing.T) {
	testlog.Start(t)
	reg, err := BuildRegistry(nil, Env{})
	require.NoError(t, err)
	var ids []string
	for _, meta := range reg.ListMetadata() {
		ids = append(ids, meta.ID)
	}
	assert.Equal(t, BuiltinIDs(), ids)

	reg, err = BuildRegistry([]string{"mysqld", "gadget.mysqld", " ", "none"}, Env{})
	require.NoError(t, err)
	assert.Len(t, reg.ListMetadata(), 1)

	reg, err = BuildRegistry([]string{"none"}, Env{})
	require.NoError(t, err)
	assert.Empty(t, reg.ListMetadata())

	_, err = BuildRegistry([]string{"gadget.postgres"}, Env{})
	assert.ErrorIs(t, err, ErrUnknownGadget)
}

func TestRegistryAliases(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	require.NoError(t, r.Register(fakeGadget{meta: Metadata{ID: "gadget.fake", Name: "Fake", Description: "fake"}}))
	require.NoError(t, r.Register(fakeGadget{meta: Metadata{ID: "gadget.other", Name: "Other", Description: "other"}}))

	require.NoError(t, r.Alias("fake", "gadget.fake"))
	require.NoError(t, r.Alias("f", "gadget.fake"))
	assert.Equal(t, []string{"f", "fake"}, r.Aliases("gadget.fake"))
	assert.Empty(t, r.Aliases("gadget.other"))

	g, ok := r.Resolve(" fake ")
	require.True(t, ok)
	assert.Equal(t, "gadget.fake", g.Metadata().ID)

	assert.ErrorIs(t, r.Alias("fake", "gadget.other"), ErrGadgetExists)
	assert.ErrorIs(t, r.Alias("gadget.other", "gadget.fake"), ErrGadgetExists)
	assert.ErrorIs(t, r.Alias("ghost", "gadget.missing"), ErrUnknownGadget)
	assert.ErrorIs(t, r.Alias("Bad Alias", "gadget.fake"), ErrInvalidMetadata)
	assert.ErrorIs(t, r.Register(fakeGadget{meta: Metadata{ID: "fake", Name: "Clash", Description: "clash"}}), ErrGadgetExists)
}

func TestBuildRegistryResolvesAliases(t *testing.T) {
	testlog.Start(t)
	reg, err := BuildRegistry(nil, Env{})
	require.NoError(t, err)

	for alias, id := range map[string]string{"mysqld": "gadget.mysqld", "tool": "gadget.tool"} {
		g, ok := reg.Resolve(alias)
		require.True(t, ok, alias)
		assert.Equal(t, id, g.Metadata().ID)
		assert.Equal(t, []string{alias}, reg.Aliases(id))
	}
}
