package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAppendListDelete(t *testing.T) {
	req := require.New(t)
	s := NewMemory()
	ctx := context.Background()

	first, err := s.Append(ctx, "alice", "hi")
	req.NoError(err)
	_, err = s.Append(ctx, "bob", "")
	req.NoError(err)

	msgs, err := s.ListRecent(ctx, 10)
	req.NoError(err)
	req.Len(msgs, 2)
	req.Equal("hi", msgs[0].Message)
	req.Equal("", msgs[1].Message)

	limited, err := s.ListRecent(ctx, 1)
	req.NoError(err)
	req.Len(limited, 1)
	req.Equal(first.ID, limited[0].ID)

	removed, err := s.DeleteByID(ctx, first.ID)
	req.NoError(err)
	req.True(removed)

	removed, err = s.DeleteByID(ctx, first.ID)
	req.NoError(err)
	req.False(removed)
}

func TestMemoryStoreListRecentClampsLimit(t *testing.T) {
	req := require.New(t)
	s := NewMemory()
	ctx := context.Background()

	_, err := s.Append(ctx, "alice", "hi")
	req.NoError(err)

	msgs, err := s.ListRecent(ctx, -1)
	req.NoError(err)
	req.Empty(msgs)

	msgs, err = s.ListRecent(ctx, 0)
	req.NoError(err)
	req.Empty(msgs)
}
