package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateClaimReturnsRow(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	c, err := s.CreateClaim(ctx, 42, 100, -250, Nether)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.UserID)
	assert.Equal(t, 100, c.X)
	assert.Equal(t, -250, c.Y)
	assert.Equal(t, Nether, c.Dimension)
	assert.False(t, c.ClaimedAt.IsZero())
}

func TestClaimsFilter(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateClaim(ctx, 1, 0, 0, Overworld)
	require.NoError(t, err)
	_, err = s.CreateClaim(ctx, 1, 500, 500, Nether)
	require.NoError(t, err)
	_, err = s.CreateClaim(ctx, 2, 900, 900, Overworld)
	require.NoError(t, err)

	all, err := s.Claims(ctx, ClaimFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	user := int64(1)
	mine, err := s.Claims(ctx, ClaimFilter{UserID: &user})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	ow := Overworld
	mineOw, err := s.Claims(ctx, ClaimFilter{UserID: &user, Dimension: &ow})
	require.NoError(t, err)
	require.Len(t, mineOw, 1)
	assert.Equal(t, 0, mineOw[0].X)
}

func TestClaimsWithinRadius(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateClaim(ctx, 1, 0, 0, Overworld)
	require.NoError(t, err)

	// (50, 50) is ~70.7 away: inside a 200 radius.
	near, err := s.ClaimsWithin(ctx, 50, 50, 200, Overworld)
	require.NoError(t, err)
	assert.Len(t, near, 1)

	far, err := s.ClaimsWithin(ctx, 1000, 1000, 200, Overworld)
	require.NoError(t, err)
	assert.Empty(t, far)

	// Same spot, different dimension.
	other, err := s.ClaimsWithin(ctx, 50, 50, 200, Nether)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestClaimsWithinBoundaryExcluded(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateClaim(ctx, 1, 0, 0, Overworld)
	require.NoError(t, err)

	// Exactly radius away is not "within".
	atEdge, err := s.ClaimsWithin(ctx, 200, 0, 200, Overworld)
	require.NoError(t, err)
	assert.Empty(t, atEdge)

	inside, err := s.ClaimsWithin(ctx, 199, 0, 200, Overworld)
	require.NoError(t, err)
	assert.Len(t, inside, 1)
}

func TestCountUserClaims(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateClaim(ctx, 7, 0, 0, Overworld)
	require.NoError(t, err)
	_, err = s.CreateClaim(ctx, 7, 5000, 5000, Nether)
	require.NoError(t, err)

	n, err := s.CountUserClaims(ctx, 7, Overworld)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CountUserClaims(ctx, 7, TheEnd)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDeleteClaim(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateClaim(ctx, 1, 10, 20, Overworld)
	require.NoError(t, err)

	require.NoError(t, s.DeleteClaim(ctx, 10, 20, Overworld))
	all, err := s.Claims(ctx, ClaimFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	// Deleting again is a no-op.
	assert.NoError(t, s.DeleteClaim(ctx, 10, 20, Overworld))
}
