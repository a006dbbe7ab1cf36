package plinth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type depA struct{ name string }
type depB struct{ name string }

type report struct{}

func buildReport(a *depA, b *depB) string {
	return a.name + "+" + b.name
}

type greeter struct {
	punctuation string
}

func (g *greeter) Greet(greeting, name string) string {
	return fmt.Sprintf("%s, %s%s", greeting, name, g.punctuation)
}

func newInvokerCatalog() *Catalog {
	catalog := NewCatalog()
	catalog.MustDefine(func() *depA { return &depA{name: "a"} })
	catalog.MustDefine(func() *depB { return &depB{name: "b"} })
	catalog.MustDefine(func() *greeter { return &greeter{punctuation: "!"} },
		WithMethod("Greet", P("greeting"), P("name").Default("world")))

	return catalog
}

func TestCall_TypeLevelFunction(t *testing.T) {
	catalog := newInvokerCatalog()
	require.NoError(t, catalog.Func(MethodKey(TypeName[report](), "Build"), buildReport))

	c := newTestContainer(t, Config{}, catalog)

	out, err := c.Call(Method{Recv: TypeName[report](), Name: "Build"})
	require.NoError(t, err)
	assert.Equal(t, "a+b", out)

	assert.True(t, c.Inspect(TypeName[depA]()).Built)
	assert.True(t, c.Inspect(TypeName[depB]()).Built)
}

func TestCall_NamedFunction(t *testing.T) {
	c := newTestContainer(t, Config{}, newInvokerCatalog())

	out, err := c.Call(buildReport)
	require.NoError(t, err)
	assert.Equal(t, "a+b", out)
}

func TestCall_NamedFunctionOverride(t *testing.T) {
	c := newTestContainer(t, Config{
		Arguments: map[string]any{
			FuncName(buildReport): []any{&depA{name: "x"}, &depB{name: "y"}},
		},
	}, newInvokerCatalog())

	out, err := c.Call(buildReport)
	require.NoError(t, err)
	assert.Equal(t, "x+y", out)
	assert.False(t, c.Inspect(TypeName[depA]()).Built)
}

func TestCall_RegisteredFunctionByName(t *testing.T) {
	catalog := newInvokerCatalog()
	require.NoError(t, catalog.Func("report.build", buildReport))
	c := newTestContainer(t, Config{}, catalog)

	out, err := c.Call("report.build")
	require.NoError(t, err)
	assert.Equal(t, "a+b", out)
}

func TestCall_OverrideProducerReceivesKey(t *testing.T) {
	catalog := newInvokerCatalog()
	require.NoError(t, catalog.Func("report.build", buildReport))

	var seen Target
	c := newTestContainer(t, Config{
		Arguments: map[string]any{
			"report.build": Producer(func(_ *Container, target Target) (Args, error) {
				seen = target
				return Positional(&depA{name: "p"}, &depB{name: "q"}), nil
			}),
		},
	}, catalog)

	out, err := c.Call("report.build")
	require.NoError(t, err)
	assert.Equal(t, "p+q", out)
	assert.Equal(t, "report.build", seen.Key)
	assert.Equal(t, "report.build", seen.Callable)
}

func TestCall_Closure(t *testing.T) {
	c := newTestContainer(t, Config{}, newInvokerCatalog())

	out, err := c.Call(func(a *depA) int { return len(a.name) })
	require.NoError(t, err)
	assert.Equal(t, 1, out)
}

func TestCall_ErrorAndMultipleResults(t *testing.T) {
	c := newTestContainer(t, Config{}, NewCatalog())

	boom := errors.New("boom")
	_, err := c.Call(func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	out, err := c.Call(func() (int, string) { return 1, "two" })
	require.NoError(t, err)
	assert.Equal(t, []any{1, "two"}, out)

	out, err = c.Call(func() {})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCall_NotInvocable(t *testing.T) {
	c := newTestContainer(t, Config{}, newInvokerCatalog())
	g := &greeter{}

	for name, callable := range map[string]any{
		"unknown function": "nope",
		"not a func":       42,
		"missing method":   Method{Recv: g, Name: "Missing"},
		"empty method":     Method{Recv: g},
		"nil":              nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Call(callable)
			require.Error(t, err)
			assert.True(t, IsConfiguration(err))
			assert.False(t, c.IsCallable(callable))
		})
	}
}

func TestCall_BoundMethod(t *testing.T) {
	catalog := newInvokerCatalog()
	key := MethodKey(TypeName[greeter](), "Greet")

	t.Run("named arguments", func(t *testing.T) {
		c := newTestContainer(t, Config{}, catalog)
		g := Must[*greeter](c, TypeName[greeter]())

		out, err := c.CallWith(Method{Recv: g, Name: "Greet"},
			map[string]any{"name": "Ada", "greeting": "Hello"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, Ada!", out)
	})

	t.Run("positional arguments", func(t *testing.T) {
		c := newTestContainer(t, Config{}, catalog)
		g := Must[*greeter](c, TypeName[greeter]())

		out, err := c.CallWith(Method{Recv: g, Name: "Greet"}, []any{"Hi", "Bob"})
		require.NoError(t, err)
		assert.Equal(t, "Hi, Bob!", out)
	})

	t.Run("declared default fills the gap", func(t *testing.T) {
		c := newTestContainer(t, Config{}, catalog)
		g := Must[*greeter](c, TypeName[greeter]())

		out, err := c.CallWith(Method{Recv: g, Name: "Greet"}, Named(map[string]any{"greeting": "Hey"}))
		require.NoError(t, err)
		assert.Equal(t, "Hey, world!", out)
	})

	t.Run("configured override", func(t *testing.T) {
		c := newTestContainer(t, Config{
			Arguments: map[string]any{key: map[string]any{"greeting": "Bonjour", "name": "Marie"}},
		}, catalog)
		g := Must[*greeter](c, TypeName[greeter]())

		out, err := c.Call(Method{Recv: g, Name: "Greet"})
		require.NoError(t, err)
		assert.Equal(t, "Bonjour, Marie!", out)
	})

	t.Run("scalar without override fails", func(t *testing.T) {
		c := newTestContainer(t, Config{}, catalog)
		g := Must[*greeter](c, TypeName[greeter]())

		_, err := c.Call(Method{Recv: g, Name: "Greet"})
		require.Error(t, err)
		assert.True(t, IsConfiguration(err))
	})

	t.Run("unknown named argument", func(t *testing.T) {
		c := newTestContainer(t, Config{}, catalog)
		g := Must[*greeter](c, TypeName[greeter]())

		_, err := c.CallWith(Method{Recv: g, Name: "Greet"}, map[string]any{"greeting": "Hi", "title": "Dr"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title")
	})
}

func TestCall_BoundMethodUnderCustomName(t *testing.T) {
	catalog := NewCatalog()
	catalog.MustDefine(func() *greeter { return &greeter{punctuation: "!"} },
		WithName("greeter"),
		WithMethod("Greet", P("greeting"), P("name").Default("world")))

	c := newTestContainer(t, Config{}, catalog)
	g := Must[*greeter](c, "greeter")

	out, err := c.CallWith(Method{Recv: g, Name: "Greet"},
		map[string]any{"greeting": "Hi", "name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hi, Ada!", out)

	out, err = c.CallWith(Method{Recv: g, Name: "Greet"}, Named(map[string]any{"greeting": "Hey"}))
	require.NoError(t, err)
	assert.Equal(t, "Hey, world!", out)
}

func TestCallWith_Producer(t *testing.T) {
	c := newTestContainer(t, Config{}, newInvokerCatalog())
	g := &greeter{punctuation: "?"}
	target := Method{Recv: g, Name: "Greet"}

	var seen Target
	out, err := c.CallWith(target, func(_ *Container, tg Target) (Args, error) {
		seen = tg
		return Positional("Hello", "there"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, there?", out)
	assert.Equal(t, target, seen.Callable)
	assert.Equal(t, MethodKey(TypeName[greeter](), "Greet"), seen.Key)

	boom := errors.New("boom")
	_, err = c.CallWith(target, Producer(func(*Container, Target) (Args, error) {
		return Args{}, boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestCallWith_Variadic(t *testing.T) {
	c := newTestContainer(t, Config{}, NewCatalog())

	sum := func(prefix string, xs ...int) string {
		total := 0
		for _, x := range xs {
			total += x
		}
		return fmt.Sprintf("%s%d", prefix, total)
	}

	out, err := c.CallWith(sum, []any{"total=", 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "total=6", out)
}

func TestCallWith_UnsupportedArguments(t *testing.T) {
	c := newTestContainer(t, Config{}, NewCatalog())

	_, err := c.CallWith(func() {}, 42)
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
}

func TestCallAs(t *testing.T) {
	c := newTestContainer(t, Config{}, newInvokerCatalog())

	s, err := CallAs[string](c, buildReport)
	require.NoError(t, err)
	assert.Equal(t, "a+b", s)

	_, err = CallAs[int](c, buildReport)
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)
}

func TestFuncName(t *testing.T) {
	assert.Equal(t, "github.com/xraph/plinth.buildReport", FuncName(buildReport))
	assert.Empty(t, FuncName(func() {}))
	assert.Empty(t, FuncName((&greeter{}).Greet))
	assert.Empty(t, FuncName("buildReport"))
}
