package battle_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/game/battle"
)

func TestManager_Lifecycle(t *testing.T) {
	m := battle.NewManager(nil)

	b, err := m.Create(battle.Options{ID: "arena"})
	require.NoError(t, err)
	assert.Equal(t, "arena", b.ID())

	_, err = m.Create(battle.Options{ID: "arena"})
	assert.Error(t, err)

	got, ok := m.Get("arena")
	require.True(t, ok)
	assert.Same(t, b, got)

	anon, err := m.Create(battle.Options{})
	require.NoError(t, err)
	assert.Len(t, m.IDs(), 2)
	assert.Contains(t, m.IDs(), anon.ID())

	assert.True(t, m.End("arena"))
	assert.False(t, m.End("arena"))
	_, ok = m.Get("arena")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestManager_ConcurrentCreate(t *testing.T) {
	m := battle.NewManager(nil)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.Create(battle.Options{ID: fmt.Sprintf("b-%02d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	ids := m.IDs()
	require.Len(t, ids, 32)
	assert.Equal(t, "b-00", ids[0])
	assert.Equal(t, "b-31", ids[31])
}

func TestProperty_ManagerIDsSorted(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := battle.NewManager(nil)
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}`), 0, 20, rapid.ID[string]).Draw(rt, "names")
		for _, n := range names {
			if _, err := m.Create(battle.Options{ID: n}); err != nil {
				rt.Fatalf("create %q: %v", n, err)
			}
		}
		ids := m.IDs()
		if len(ids) != len(names) {
			rt.Fatalf("got %d ids, want %d", len(ids), len(names))
		}
		for i := 1; i < len(ids); i++ {
			if ids[i-1] >= ids[i] {
				rt.Fatalf("ids not sorted: %v", ids)
			}
		}
	})
}
