package vmem

import "testing"
import "unsafe"

import "github.com/stretchr/testify/require"

func TestReserveCommit(t *testing.T) {
	n := 1 << 21
	p, err := Reserve(n)
	require.NoError(t, err)
	require.NotNil(t, p)
	defer Release(p, n)

	require.NoError(t, Commit(p, 1<<16))
	blk := unsafe.Slice((*byte)(p), 1<<16)
	for i := range blk {
		blk[i] = 0xa5
	}
	for i := range blk {
		if blk[i] != 0xa5 {
			t.Fatalf("expected %v, got %v", 0xa5, blk[i])
		}
	}
}

func TestDecommit(t *testing.T) {
	n := 1 << 21
	p, err := Reserve(n)
	require.NoError(t, err)
	defer Release(p, n)

	require.NoError(t, Commit(p, n))
	blk := unsafe.Slice((*byte)(p), n)
	blk[0], blk[n-1] = 1, 1
	Decommit(p, n)

	// recommit and verify the range reads as fresh zero pages.
	require.NoError(t, Commit(p, n))
	if blk[0] != 0 || blk[n-1] != 0 {
		t.Errorf("expected zero filled pages after decommit")
	}
}
