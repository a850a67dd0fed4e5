package process

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanResolvesOwners(t *testing.T) {
	src := newFakeSource(3)
	s := NewScanner(src, mapUsers{1001: "alice"}, 10, nil)

	recs, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, Record{PID: 101, Owner: "alice", Name: "proc1", State: 'S'}, recs[0])
	assert.Equal(t, "1000", recs[1].Owner, "unresolvable uid falls back to the number")
	assert.Equal(t, "alice", recs[2].Owner)
}

func TestScanTruncatesToCapacity(t *testing.T) {
	src := newFakeSource(50)
	s := NewScanner(src, mapUsers{}, 20, nil)

	recs, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 20)
	assert.Equal(t, 20, src.reads, "reading stops once the table is full")
}

func TestScanSkipsUnreadableDuplicateAndInvalid(t *testing.T) {
	src := newFakeSource(4)
	// 102 vanished, 103 listed twice, 0 and -5 are not valid pids
	delete(src.entries, 102)
	src.order = []int{0, 101, 102, -5, 103, 103, 104}

	recs, err := NewScanner(src, mapUsers{}, 10, nil).Scan(context.Background())
	require.NoError(t, err)

	pids := make([]int, 0, len(recs))
	for _, r := range recs {
		pids = append(pids, r.PID)
	}
	assert.Equal(t, []int{101, 103, 104}, pids)
}

func TestScanSkippedEntriesDoNotCountTowardCapacity(t *testing.T) {
	src := newFakeSource(6)
	delete(src.entries, 101)
	delete(src.entries, 102)

	recs, err := NewScanner(src, mapUsers{}, 3, nil).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 103, recs[0].PID)
}

func TestScanPidsArePositiveAndDistinct(t *testing.T) {
	src := newFakeSource(30)
	src.order = append(src.order, src.order...)
	recs, err := NewScanner(src, mapUsers{}, DefaultCapacity, nil).Scan(context.Background())
	require.NoError(t, err)
	require.LessOrEqual(t, len(recs), DefaultCapacity)

	seen := map[int]bool{}
	for _, r := range recs {
		assert.Positive(t, r.PID)
		assert.False(t, seen[r.PID], "duplicate pid %d", r.PID)
		seen[r.PID] = true
	}
}

func TestScanUsesSourceOwnerAndDefaults(t *testing.T) {
	src := &fakeSource{
		order: []int{9},
		entries: map[int]Entry{
			9: {PID: 9, Name: strings.Repeat("x", MaxNameLen+10), Owner: `NT AUTHORITY\SYSTEM`},
		},
	}
	recs, err := NewScanner(src, mapUsers{}, 5, nil).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, `NT AUTHORITY\SYSTEM`, recs[0].Owner)
	assert.Equal(t, StateUnknown, recs[0].State)
	assert.Len(t, recs[0].Name, MaxNameLen)
}

func TestScanEnumerationFailure(t *testing.T) {
	boom := errors.New("proc not mounted")
	src := &fakeSource{listErr: boom}
	recs, err := NewScanner(src, mapUsers{}, 5, nil).Scan(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, recs)
}

func TestNewSourceRejectsUnknownKind(t *testing.T) {
	_, err := NewSource("kvm", "")
	assert.Error(t, err)

	src, err := NewSource(SourcePSUtil, "")
	require.NoError(t, err)
	assert.IsType(t, &PSUtil{}, src)
}
