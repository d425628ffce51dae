package accqueue

import (
	"testing"

	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/errs"
	"github.com/kysee/maci-core/tree"
	"github.com/stretchr/testify/require"
)

func TestEnqueueBeforeMergeLeavesRootUnpopulated(t *testing.T) {
	q := New(2, 5)
	emptyRoot := q.Root()

	require.NoError(t, q.Enqueue(field.NewFromUint64(1)))
	require.True(t, q.Root().Equal(emptyRoot), "root must not reflect a pending sub-tree before Merge")
}

func TestMergeFlushesPartialSubtree(t *testing.T) {
	q := New(2, 5)
	require.NoError(t, q.Enqueue(field.NewFromUint64(1)))
	require.NoError(t, q.Merge())
	require.False(t, q.Root().Equal(field.Zero()))
	require.True(t, q.Sealed())
}

func TestEnqueueAfterSealReturnsErrQueueSealed(t *testing.T) {
	q := New(2, 5)
	require.NoError(t, q.Merge())
	err := q.Enqueue(field.NewFromUint64(1))
	require.ErrorIs(t, err, errs.ErrQueueSealed)
}

func TestMergeIsIdempotent(t *testing.T) {
	q := New(2, 5)
	require.NoError(t, q.Enqueue(field.NewFromUint64(1)))
	require.NoError(t, q.Merge())
	root1 := q.Root()
	require.NoError(t, q.Merge())
	require.True(t, q.Root().Equal(root1))
}

func TestScenarioF_ThirtyLeavesSubDepth2MainDepth5(t *testing.T) {
	q := New(2, 5)
	for i := 0; i < 30; i++ {
		require.NoError(t, q.Enqueue(field.NewFromUint64(uint64(i))))
	}
	// subCapacity = 5^2 = 25: the first 25 enqueues auto-flush one full
	// sub-tree; the remaining 5 sit in a partial second sub-tree until
	// Merge is called.
	require.False(t, q.Sealed())
	require.NoError(t, q.Merge())
	require.True(t, q.Sealed())
	require.False(t, q.Root().Equal(field.Zero()))

	// Testable Property 8 / Scenario F: an AccQueue's root must equal
	// an independent monolithic QuinaryTree(mainDepth) built directly
	// over the same leaves, not a tree with subDepth extra levels on
	// top of the sub-roots.
	direct := tree.New(5)
	for i := 0; i < 30; i++ {
		_, err := direct.Insert(field.NewFromUint64(uint64(i)))
		require.NoError(t, err)
	}
	require.True(t, q.Root().Equal(direct.Root()), "AccQueue root must match an independent direct tree construction")
}

func TestAutoFlushOnFullSubtree(t *testing.T) {
	q := New(1, 5) // subCapacity = 5
	rootBeforeFill := q.Root()
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(field.NewFromUint64(uint64(i))))
	}
	// the sub-tree just filled and auto-flushed, so the main tree
	// already reflects it without an explicit Merge call.
	require.False(t, q.Root().Equal(rootBeforeFill))
}
