package zkproof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weisyn/zkgeo/internal/core/zkproof/testutil"
)

func TestKeyRegistry_PutGet(t *testing.T) {
	r, err := NewKeyRegistry(8, time.Hour, testutil.NewTestLogger())
	require.NoError(t, err)
	defer r.Close()

	_, found, err := r.Get(SchemeGroth16, "digest")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, r.Put(SchemeGroth16, "digest", []byte{1, 2, 3}))
	require.Equal(t, 1, r.Len())

	vk, found, err := r.Get(SchemeGroth16, "digest")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte{1, 2, 3}, vk)

	// 同一电路在不同方案下是不同的键
	_, found, err = r.Get(SchemePlonK, "digest")
	require.NoError(t, err)
	require.False(t, found)
}

func TestKeyRegistry_Close(t *testing.T) {
	r, err := NewKeyRegistry(8, 0, testutil.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, r.Put(SchemeGroth16, "digest", []byte{1}))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	require.ErrorIs(t, r.Put(SchemeGroth16, "digest", []byte{1}), ErrSessionClosed)
	_, _, err = r.Get(SchemeGroth16, "digest")
	require.ErrorIs(t, err, ErrSessionClosed)
	require.Equal(t, 0, r.Len())
}
