package orderedmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c3pb/rabbitmq-mqtt/orderedmap"
)

func TestItPreservesInsertionOrder(t *testing.T) {
	m := orderedmap.New[int, string]()

	m.Set(3, "three")
	m.Set(1, "one")
	m.Set(2, "two")

	require.Equal(t, []int{3, 1, 2}, m.Keys())
}

func TestItReturnsTheOldestEntryFirst(t *testing.T) {
	m := orderedmap.New[uint64, uint16]()

	m.Set(5, 100)
	m.Set(6, 101)

	key, val, ok := m.First()

	require.True(t, ok)
	require.Equal(t, uint64(5), key)
	require.Equal(t, uint16(100), val)
}

func TestItReportsNoFirstEntryWhenEmpty(t *testing.T) {
	m := orderedmap.New[int, int]()

	_, _, ok := m.First()

	require.False(t, ok)
}

func TestDeleteShiftsLaterEntriesLeft(t *testing.T) {
	m := orderedmap.New[int, string]()

	m.Set(1, "a")
	m.Set(2, "b")
	m.Set(3, "c")

	m.Delete(2)

	require.Equal(t, []int{1, 3}, m.Keys())
	require.Equal(t, 2, m.Len())

	key, val, ok := m.First()
	require.True(t, ok)
	require.Equal(t, 1, key)
	require.Equal(t, "a", val)
}

func TestSetOnExistingKeyUpdatesValueWithoutReordering(t *testing.T) {
	m := orderedmap.New[int, string]()

	m.Set(1, "a")
	m.Set(2, "b")
	m.Set(1, "updated")

	require.Equal(t, []int{1, 2}, m.Keys())

	val, ok := m.Get(1)
	require.True(t, ok)
	require.Equal(t, "updated", val)
}

func TestRangeVisitsInInsertionOrderAndCanStopEarly(t *testing.T) {
	m := orderedmap.New[int, int]()

	m.Set(10, 1)
	m.Set(20, 2)
	m.Set(30, 3)

	var seen []int

	m.Range(func(key int, val int) bool {
		seen = append(seen, key)
		return key != 20
	})

	require.Equal(t, []int{10, 20}, seen)
}
