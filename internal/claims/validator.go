package claims

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"husky/internal/store"
)

// Defaults mirror the config fallbacks in internal/config.
const (
	DefaultRadius       = 200
	DefaultPerDimension = 1
)

// ClaimLimitExceededError reports that the user already holds the maximum
// number of claims in the dimension.
type ClaimLimitExceededError struct {
	UserID    int64
	Dimension store.Dimension
	Limit     int
}

func (e *ClaimLimitExceededError) Error() string {
	return fmt.Sprintf("claim limit of %d reached in %s", e.Limit, e.Dimension)
}

// ClaimIntersectsError reports that the requested point lies within the
// protected radius of at least one existing claim. Blocking holds the
// offending claims so the caller can render them.
type ClaimIntersectsError struct {
	X, Y      int
	Dimension store.Dimension
	Blocking  []store.Claim
}

func (e *ClaimIntersectsError) Error() string {
	spots := make([]string, len(e.Blocking))
	for i, c := range e.Blocking {
		spots[i] = fmt.Sprintf("(%d, %d)", c.X, c.Y)
	}
	return fmt.Sprintf("claim at (%d, %d) in %s intersects existing claims at %s",
		e.X, e.Y, e.Dimension, strings.Join(spots, ", "))
}

// Validator enforces the claim rules in front of the store: at most Limit
// claims per user per dimension, and no two claims within Radius of each
// other in the same dimension.
type Validator struct {
	store  *store.Store
	log    zerolog.Logger
	radius int
	limit  int

	mu    sync.Mutex
	users map[int64]*sync.Mutex
}

// NewValidator wires a validator over the store. Non-positive radius or
// limit fall back to the defaults.
func NewValidator(s *store.Store, log zerolog.Logger, radius, limit int) *Validator {
	if radius <= 0 {
		radius = DefaultRadius
	}
	if limit <= 0 {
		limit = DefaultPerDimension
	}
	return &Validator{
		store:  s,
		log:    log.With().Str("component", "claims").Logger(),
		radius: radius,
		limit:  limit,
		users:  map[int64]*sync.Mutex{},
	}
}

// userLock serializes a single user's attempts. Attempts by different users
// may still race against each other; the worst case is two nearby claims
// both landing, which moderators resolve by hand.
func (v *Validator) userLock(userID int64) *sync.Mutex {
	v.mu.Lock()
	defer v.mu.Unlock()
	l, ok := v.users[userID]
	if !ok {
		l = &sync.Mutex{}
		v.users[userID] = l
	}
	return l
}

// AttemptClaim validates and records a claim at (x, y) in the given
// dimension. It returns ClaimLimitExceededError when the user is at their
// per-dimension limit and ClaimIntersectsError when the point falls inside
// another claim's radius.
func (v *Validator) AttemptClaim(ctx context.Context, userID int64, x, y int, dim store.Dimension) (store.Claim, error) {
	l := v.userLock(userID)
	l.Lock()
	defer l.Unlock()

	count, err := v.store.CountUserClaims(ctx, userID, dim)
	if err != nil {
		return store.Claim{}, err
	}
	if count >= v.limit {
		return store.Claim{}, &ClaimLimitExceededError{UserID: userID, Dimension: dim, Limit: v.limit}
	}

	blocking, err := v.store.ClaimsWithin(ctx, x, y, v.radius, dim)
	if err != nil {
		return store.Claim{}, err
	}
	if len(blocking) > 0 {
		return store.Claim{}, &ClaimIntersectsError{X: x, Y: y, Dimension: dim, Blocking: blocking}
	}

	claim, err := v.store.CreateClaim(ctx, userID, x, y, dim)
	if err != nil {
		return store.Claim{}, err
	}
	v.log.Info().Int64("user", userID).Int("x", x).Int("y", y).Stringer("dimension", dim).Msg("claim recorded")
	return claim, nil
}

// RemoveClaim deletes the claim at the exact coordinates. Removing a spot
// nobody claimed is a no-op.
func (v *Validator) RemoveClaim(ctx context.Context, x, y int, dim store.Dimension) error {
	return v.store.DeleteClaim(ctx, x, y, dim)
}

// Claims lists claims matching the filter, unvalidated passthrough for the
// list command.
func (v *Validator) Claims(ctx context.Context, f store.ClaimFilter) ([]store.Claim, error) {
	return v.store.Claims(ctx, f)
}
