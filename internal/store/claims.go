package store

import (
	"context"
	"fmt"
	"strings"
)

// CreateClaim inserts a claim and returns the stored row, claim time
// included. Validity (radius, per-user limit) is checked by the caller
// before the write.
func (s *Store) CreateClaim(ctx context.Context, userID int64, x, y int, dim Dimension) (Claim, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO claims (user_id, claim_x, claim_y, dimension)
		VALUES (?, ?, ?, ?)
		RETURNING user_id, claim_x, claim_y, dimension, claim_time`,
		userID, x, y, int(dim))

	var c Claim
	if err := row.Scan(&c.UserID, &c.X, &c.Y, &c.Dimension, &c.ClaimedAt); err != nil {
		return Claim{}, fmt.Errorf("store: create claim: %w", err)
	}
	return c, nil
}

// ClaimFilter restricts Claims to rows matching every set field; unset
// fields are omitted from the WHERE clause entirely.
type ClaimFilter struct {
	UserID    *int64
	X         *int
	Y         *int
	Dimension *Dimension
}

// Claims returns all claims matching the filter.
func (s *Store) Claims(ctx context.Context, f ClaimFilter) ([]Claim, error) {
	query := `SELECT user_id, claim_x, claim_y, dimension, claim_time FROM claims`

	var conds []string
	var args []interface{}
	if f.UserID != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.X != nil {
		conds = append(conds, "claim_x = ?")
		args = append(args, *f.X)
	}
	if f.Y != nil {
		conds = append(conds, "claim_y = ?")
		args = append(args, *f.Y)
	}
	if f.Dimension != nil {
		conds = append(conds, "dimension = ?")
		args = append(args, int(*f.Dimension))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list claims: %w", err)
	}
	defer rows.Close()

	var out []Claim
	for rows.Next() {
		var c Claim
		if err := rows.Scan(&c.UserID, &c.X, &c.Y, &c.Dimension, &c.ClaimedAt); err != nil {
			return nil, fmt.Errorf("store: scan claim: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list claims rows: %w", err)
	}
	return out, nil
}

// ClaimsWithin returns every claim in dim whose Euclidean distance to (x, y)
// is strictly less than radius. The comparison runs on squared distances so
// the query stays in integer arithmetic.
func (s *Store) ClaimsWithin(ctx context.Context, x, y, radius int, dim Dimension) ([]Claim, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, claim_x, claim_y, dimension, claim_time FROM claims
		WHERE dimension = ?
		AND (claim_x - ?) * (claim_x - ?) + (claim_y - ?) * (claim_y - ?) < ? * ?`,
		int(dim), x, x, y, y, radius, radius)
	if err != nil {
		return nil, fmt.Errorf("store: claims within: %w", err)
	}
	defer rows.Close()

	var out []Claim
	for rows.Next() {
		var c Claim
		if err := rows.Scan(&c.UserID, &c.X, &c.Y, &c.Dimension, &c.ClaimedAt); err != nil {
			return nil, fmt.Errorf("store: scan claim: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: claims within rows: %w", err)
	}
	return out, nil
}

// CountUserClaims returns how many claims the user holds in dim.
func (s *Store) CountUserClaims(ctx context.Context, userID int64, dim Dimension) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims WHERE user_id = ? AND dimension = ?`,
		userID, int(dim)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count user claims: %w", err)
	}
	return n, nil
}

// DeleteClaim removes the claim at exactly (x, y) in dim. Deleting a claim
// that does not exist is a no-op, not an error.
func (s *Store) DeleteClaim(ctx context.Context, x, y int, dim Dimension) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM claims WHERE claim_x = ? AND claim_y = ? AND dimension = ?`,
		x, y, int(dim))
	if err != nil {
		return fmt.Errorf("store: delete claim: %w", err)
	}
	return nil
}
