// Package accqueue implements MACI's AccQueue: an accumulator queue
// that batches leaves into small sub-trees and defers merging those
// sub-roots into a single main root until the caller explicitly seals
// the queue (spec §4.11-adjacent component C12; default subDepth=2
// per spec §3).
package accqueue

import (
	"fmt"

	"github.com/kysee/maci-core/field"
	"github.com/kysee/maci-core/internal/errs"
	"github.com/kysee/maci-core/tree"
)

// AccQueue batches leaf insertions into fixed-depth sub-trees, only
// materializing a sub-root (and inserting it into the main tree) once
// a sub-tree fills or the queue is explicitly merged. This mirrors
// on-chain AccQueues, where full sub-tree hashing happens once per
// batch rather than once per leaf to keep gas costs bounded.
type AccQueue struct {
	subDepth  int
	mainDepth int

	sub         *tree.QuinaryTree
	subCount    uint64
	subCapacity uint64

	main   *tree.QuinaryTree
	sealed bool
}

// New creates an AccQueue with the given sub-tree depth and main-tree
// depth. mainDepth is the depth of the queue's overall tree over the
// original leaves; the main tree built over sub-roots only needs to
// span the remaining mainDepth-subDepth levels above them (spec
// §4.10's merge(): "iterate mainDepth − subDepth levels").
//
// An unflushed slot in the main tree stands in for a sub-tree that was
// never enqueued into at all, which in a monolithic mainDepth-deep tree
// over the original leaves would be an entirely empty subDepth-deep
// region — i.e. its root is the precomputed zero hash for height
// subDepth, not the raw zero element. The main tree is therefore built
// with that value as its zero base, so Root() agrees with an
// independent direct tree construction (Testable Property 8).
func New(subDepth, mainDepth int) *AccQueue {
	emptySubRoot := tree.New(subDepth).Root()
	return &AccQueue{
		subDepth:    subDepth,
		mainDepth:   mainDepth,
		sub:         tree.New(subDepth),
		subCapacity: pow5(subDepth),
		main:        tree.NewWithZeroBase(mainDepth-subDepth, emptySubRoot),
	}
}

// Enqueue inserts leaf into the current sub-tree. If the sub-tree
// fills, its root is pushed into the main tree and a fresh empty
// sub-tree is started. Enqueue returns errs.ErrQueueSealed once the
// queue has been sealed.
func (q *AccQueue) Enqueue(leaf field.Element) error {
	if q.sealed {
		return fmt.Errorf("accqueue: enqueue: %w", errs.ErrQueueSealed)
	}

	if _, err := q.sub.Insert(leaf); err != nil {
		return err
	}
	q.subCount++

	if q.subCount == q.subCapacity {
		if err := q.flushSub(); err != nil {
			return err
		}
	}
	return nil
}

// Merge finalizes the queue: any partially-filled sub-tree is flushed
// into the main tree (its unfilled leaves already read as the
// sub-tree's zero value, so a partial sub-root is well-defined), and
// the queue is sealed against further enqueues. Merge is idempotent.
func (q *AccQueue) Merge() error {
	if q.sealed {
		return nil
	}
	if q.subCount > 0 {
		if err := q.flushSub(); err != nil {
			return err
		}
	}
	q.sealed = true
	return nil
}

// Root returns the main tree's root. It is only meaningful after
// Merge has been called; before that, pending sub-tree leaves are not
// yet reflected in it.
func (q *AccQueue) Root() field.Element {
	return q.main.Root()
}

// Sealed reports whether Merge has been called.
func (q *AccQueue) Sealed() bool { return q.sealed }

func (q *AccQueue) flushSub() error {
	subRoot := q.sub.Root()
	if _, err := q.main.Insert(subRoot); err != nil {
		return err
	}
	q.sub = tree.New(q.subDepth)
	q.subCount = 0
	return nil
}

func pow5(n int) uint64 {
	v := uint64(1)
	for i := 0; i < n; i++ {
		v *= tree.Arity
	}
	return v
}
