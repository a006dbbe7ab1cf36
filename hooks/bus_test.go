package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_FiresInPriorityOrder(t *testing.T) {
	b := NewBus()
	var order []string

	b.RegisterCallback("init", func(...any) { order = append(order, "low") }, PriorityLow, 0)
	b.RegisterCallback("init", func(...any) { order = append(order, "default-1") }, PriorityDefault, 0)
	b.RegisterCallback("init", func(...any) { order = append(order, "urgent") }, PriorityUrgent, 0)
	b.RegisterCallback("init", func(...any) { order = append(order, "default-2") }, PriorityDefault, 0)

	b.Fire("init")

	assert.Equal(t, []string{"urgent", "default-1", "default-2", "low"}, order)
	assert.Equal(t, []int{PriorityUrgent, PriorityDefault, PriorityDefault, PriorityLow}, b.Priorities("init"))
}

func TestBus_TruncatesToArity(t *testing.T) {
	b := NewBus()
	var got [][]any

	record := func(args ...any) { got = append(got, args) }
	b.RegisterCallback("save", record, PriorityDefault, 0)
	b.RegisterCallback("save", record, PriorityDefault, 2)
	b.RegisterCallback("save", record, PriorityDefault, 5)

	b.Fire("save", 1, "two", 3.0)

	assert.Len(t, got[0], 0)
	assert.Equal(t, []any{1, "two"}, got[1])
	assert.Equal(t, []any{1, "two", 3.0}, got[2])
}

func TestBus_Registry(t *testing.T) {
	b := NewBus()

	assert.False(t, b.Has("init"))
	assert.Zero(t, b.Count("init"))

	b.RegisterCallback("init", nil, PriorityDefault, 0)
	assert.False(t, b.Has("init"), "nil callbacks are ignored")

	b.RegisterCallback("init", func(...any) {}, PriorityDefault, -1)
	assert.True(t, b.Has("init"))
	assert.Equal(t, 1, b.Count("init"))

	assert.NotPanics(t, func() { b.Fire("unknown", "x") })
	assert.NotPanics(t, func() { b.Fire("init", "x") })
}

func TestBus_RegisterDuringFire(t *testing.T) {
	b := NewBus()
	calls := 0

	b.RegisterCallback("init", func(...any) {
		calls++
		b.RegisterCallback("init", func(...any) { calls += 10 }, PriorityLazy, 0)
	}, PriorityDefault, 0)

	b.Fire("init")
	assert.Equal(t, 1, calls, "callbacks added while firing wait for the next fire")

	b.Fire("init")
	assert.Equal(t, 12, calls)
}
