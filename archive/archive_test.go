package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAssignsUUIDAndTimestamp(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Save(Record{Method: "cg", N: 10, Niter: 5, Solved: true, Status: "solution good enough given atol and rtol"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.UUID)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestListReturnsChronologicalOrder(t *testing.T) {
	s := openTestStore(t)

	first, err := s.Save(Record{Method: "cg", N: 4})
	require.NoError(t, err)
	second, err := s.Save(Record{Method: "gmres", N: 8})
	require.NoError(t, err)

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.UUID, records[0].UUID)
	assert.Equal(t, second.UUID, records[1].UUID)
}

func TestListEmptyStore(t *testing.T) {
	s := openTestStore(t)
	records, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}
