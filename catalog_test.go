package plinth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Define(t *testing.T) {
	catalog := NewCatalog()

	require.NoError(t, catalog.Define(newLeaf))
	assert.True(t, catalog.Has(TypeName[leaf]()))

	def, ok := catalog.Lookup(TypeName[leaf]())
	require.True(t, ok)
	assert.Equal(t, TypeName[leaf](), def.Name())
	assert.Equal(t, "*plinth.leaf", def.Type().String())
}

func TestCatalog_DefineWithName(t *testing.T) {
	catalog := NewCatalog()

	require.NoError(t, catalog.Define(newLeaf, WithName("leaf.primary")))
	require.NoError(t, catalog.Define(newLeaf))

	assert.Equal(t, []string{TypeName[leaf](), "leaf.primary"}, catalog.Names())
}

func TestCatalog_DefineRejects(t *testing.T) {
	tests := []struct {
		name string
		ctor any
		opts []DefineOption
	}{
		{name: "not a function", ctor: 42},
		{name: "nil function", ctor: (func() *leaf)(nil)},
		{name: "variadic", ctor: func(xs ...int) *leaf { return nil }},
		{name: "no result", ctor: func() {}},
		{name: "second result not error", ctor: func() (*leaf, int) { return nil, 0 }},
		{name: "only an error", ctor: func() error { return nil }},
		{name: "too many params declared", ctor: newLeaf, opts: []DefineOption{Names("x")}},
		{name: "duplicate param names", ctor: func(a, b string) *leaf { return nil }, opts: []DefineOption{Names("x", "x")}},
		{name: "unknown method", ctor: newLeaf, opts: []DefineOption{WithMethod("Nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCatalog().Define(tt.ctor, tt.opts...)
			require.Error(t, err)
			assert.True(t, IsConfiguration(err))
		})
	}
}

func TestCatalog_DefineDuplicate(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.Define(newLeaf))

	err := catalog.Define(func() *leaf { return &leaf{} })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.Panics(t, func() { catalog.MustDefine(newLeaf) })
}

func TestCatalog_Func(t *testing.T) {
	catalog := NewCatalog()

	require.NoError(t, catalog.Func("", buildReport))
	_, ok := catalog.function(FuncName(buildReport))
	assert.True(t, ok)

	err := catalog.Func("", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit name")

	assert.Error(t, catalog.Func("report", "not a func"))
	assert.Error(t, catalog.Func(FuncName(buildReport), buildReport), "duplicate")
}

func TestCatalog_MethodParams(t *testing.T) {
	catalog := newInvokerCatalog()

	params := catalog.methodParams(MethodKey(TypeName[greeter](), "Greet"))
	require.Len(t, params, 2)
	assert.Equal(t, "greeting", params[0].Name)
	assert.True(t, params[1].HasDefault)
}

func TestMethodKey(t *testing.T) {
	assert.Equal(t, "app.Report::Render", MethodKey("app.Report", "Render"))
}

func TestCatalog_Graph(t *testing.T) {
	catalog := NewCatalog()
	catalog.MustDefine(newRoot)
	catalog.MustDefine(newBranch)
	catalog.MustDefine(newLeaf)
	catalog.MustDefine(newServiceA, Names("name"))

	g := catalog.Graph()

	assert.True(t, g.HasNode(TypeName[root]()))
	assert.Equal(t, []string{TypeName[branch]()}, g.GetDependencies(TypeName[root]()))
	assert.Empty(t, g.GetDependencies(TypeName[serviceA]()), "scalar parameters are not edges")

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Less(t, indexOf(order, TypeName[leaf]()), indexOf(order, TypeName[branch]()))
	assert.Less(t, indexOf(order, TypeName[branch]()), indexOf(order, TypeName[root]()))
	assert.Len(t, order, 4)
}

func TestCatalog_GraphDetectsCycles(t *testing.T) {
	catalog := NewCatalog()
	catalog.MustDefine(func(b *cycB) *cycA { return &cycA{b: b} })
	catalog.MustDefine(func(a *cycA) *cycB { return &cycB{a: a} })

	_, err := catalog.Graph().TopologicalSort()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircularDependencySentinel)
}

func TestDependencyGraph_MissingNodesAreSkipped(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("a", []string{"external"})
	g.AddNode("b", nil)

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.False(t, g.HasNode("external"))
	assert.Nil(t, g.GetDependencies("external"))
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
