package process

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(n int, owner string) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{PID: i + 1, Owner: owner, Name: "p", State: 'S'}
	}
	return out
}

func TestTableStartsEmpty(t *testing.T) {
	tbl := NewTable(5)
	assert.Empty(t, tbl.Snapshot())
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, 5, tbl.Cap())
	assert.Equal(t, DefaultCapacity, NewTable(0).Cap())
}

func TestTableReplaceIsWholesale(t *testing.T) {
	tbl := NewTable(10)
	tbl.Replace(records(6, "a"))
	tbl.Replace(records(2, "b"))

	got := tbl.Snapshot()
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "b", r.Owner)
	}
}

func TestTableClipsToCapacity(t *testing.T) {
	tbl := NewTable(3)
	tbl.Replace(records(8, "a"))
	got := tbl.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].PID, got[1].PID, got[2].PID})
}

func TestTableIsolatesCallers(t *testing.T) {
	tbl := NewTable(4)
	in := records(2, "a")
	tbl.Replace(in)
	in[0].Owner = "mutated"

	snap := tbl.Snapshot()
	assert.Equal(t, "a", snap[0].Owner)
	snap[1].Owner = "mutated"
	assert.Equal(t, "a", tbl.Snapshot()[1].Owner)
}

// Every published generation is uniform (all rows share one owner and the
// row count encodes the generation), so a torn read would be detectable.
func TestTableConcurrentReplaceSnapshot(t *testing.T) {
	tbl := NewTable(16)
	owners := []string{"alpha", "beta", "gamma", "delta"}
	sizes := map[string]int{"alpha": 3, "beta": 7, "gamma": 11, "delta": 16}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	defer func() {
		close(stop)
		wg.Wait()
	}()
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}
				o := owners[(i+w)%len(owners)]
				tbl.Replace(records(sizes[o], o))
			}
		}(w)
	}

	for i := 0; i < 5000; i++ {
		snap := tbl.Snapshot()
		if len(snap) == 0 {
			continue
		}
		o := snap[0].Owner
		if !assert.Len(t, snap, sizes[o], "snapshot size does not match generation %s", o) {
			break
		}
		for j, r := range snap {
			if r.Owner != o || r.PID != j+1 {
				t.Fatalf("mixed snapshot: row %d = %+v in generation %s", j, r, o)
			}
		}
	}
}
