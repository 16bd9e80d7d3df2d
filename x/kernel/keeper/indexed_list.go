package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/collections/codec"
)

// indexedList is a grouped member list with O(1) removal. Members are kept
// in positional order with a reverse position index so removal can swap the
// last member into the vacated slot instead of shifting. Used for the
// active-policy list and the per-keycode dependent lists.
type indexedList[K any] struct {
	entries collections.Map[collections.Pair[K, uint64], []byte]
	index   collections.Map[collections.Pair[K, []byte], uint64]
	sizes   collections.Map[K, uint64]
}

func newIndexedList[K any](
	sb *collections.SchemaBuilder,
	name string,
	entriesPrefix, indexPrefix, sizesPrefix []byte,
	keyCodec codec.KeyCodec[K],
) indexedList[K] {
	return indexedList[K]{
		entries: collections.NewMap(
			sb, entriesPrefix, name+"_entries",
			collections.PairKeyCodec(keyCodec, collections.Uint64Key), collections.BytesValue,
		),
		index: collections.NewMap(
			sb, indexPrefix, name+"_index",
			collections.PairKeyCodec(keyCodec, collections.BytesKey), collections.Uint64Value,
		),
		sizes: collections.NewMap(
			sb, sizesPrefix, name+"_sizes",
			keyCodec, collections.Uint64Value,
		),
	}
}

var errMemberExists = errors.New("member already in list")

func (l indexedList[K]) Len(ctx context.Context, group K) (uint64, error) {
	size, err := l.sizes.Get(ctx, group)
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return 0, nil
	}

	return size, err
}

func (l indexedList[K]) Contains(ctx context.Context, group K, member []byte) (bool, error) {
	return l.index.Has(ctx, collections.Join(group, member))
}

// Add appends the member; it is an error to add a member twice.
func (l indexedList[K]) Add(ctx context.Context, group K, member []byte) error {
	if ok, err := l.Contains(ctx, group, member); err != nil {
		return err
	} else if ok {
		return errMemberExists
	}

	size, err := l.Len(ctx, group)
	if err != nil {
		return err
	}

	if err := l.entries.Set(ctx, collections.Join(group, size), member); err != nil {
		return err
	}
	if err := l.index.Set(ctx, collections.Join(group, member), size); err != nil {
		return err
	}

	return l.sizes.Set(ctx, group, size+1)
}

// Remove deletes the member by swapping the last entry into its position.
func (l indexedList[K]) Remove(ctx context.Context, group K, member []byte) error {
	pos, err := l.index.Get(ctx, collections.Join(group, member))
	if err != nil {
		return err
	}

	size, err := l.Len(ctx, group)
	if err != nil {
		return err
	}

	lastPos := size - 1
	if pos != lastPos {
		last, err := l.entries.Get(ctx, collections.Join(group, lastPos))
		if err != nil {
			return err
		}

		if err := l.entries.Set(ctx, collections.Join(group, pos), last); err != nil {
			return err
		}
		if err := l.index.Set(ctx, collections.Join(group, last), pos); err != nil {
			return err
		}
	}

	if err := l.entries.Remove(ctx, collections.Join(group, lastPos)); err != nil {
		return err
	}
	if err := l.index.Remove(ctx, collections.Join(group, member)); err != nil {
		return err
	}

	if lastPos == 0 {
		return l.sizes.Remove(ctx, group)
	}

	return l.sizes.Set(ctx, group, lastPos)
}

// Walk visits members in positional order; the callback returns true to stop.
func (l indexedList[K]) Walk(ctx context.Context, group K, fn func(member []byte) (stop bool, err error)) error {
	rng := collections.NewPrefixedPairRange[K, uint64](group)
	return l.entries.Walk(ctx, rng, func(_ collections.Pair[K, uint64], member []byte) (bool, error) {
		return fn(member)
	})
}

// Members returns a snapshot of the list, used where the caller mutates
// the list while visiting.
func (l indexedList[K]) Members(ctx context.Context, group K) ([][]byte, error) {
	var members [][]byte
	err := l.Walk(ctx, group, func(member []byte) (bool, error) {
		members = append(members, member)
		return false, nil
	})

	return members, err
}
