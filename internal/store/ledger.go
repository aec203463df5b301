package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avashist/upkeep/internal/model"
)

// Baseline ratings for users whose stars are unset when the first ledger
// event arrives. A penalty starts from a full rating, an award from zero.
const (
	penaltyBaseline = 5
	awardBaseline   = 0
)

// ApplyPenalty records a penalty against the user and writes the resulting
// star rating back. When the user already has a rating it is carried over
// unchanged; only an unset rating is computed from the baseline. The two
// writes are separate statements, not a transaction: a failure between them
// leaves the penalty row without a rating update.
func ApplyPenalty(ctx context.Context, db *sql.DB, user *model.User, starsReduced int64, reason string) (int64, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO penalties (gov_id, stars_reduced, reason) VALUES (?, ?, ?)`,
		user.GovID, starsReduced, nullable(reason),
	)
	if err != nil {
		return 0, fmt.Errorf("creating penalty: %w", err)
	}

	newStars := penaltyBaseline - starsReduced
	if user.Stars != nil {
		newStars = *user.Stars
	}

	if err := UpdateUserStars(ctx, db, user.GovID, newStars); err != nil {
		return 0, err
	}
	return newStars, nil
}

// ApplyAward records an award for the user and writes the resulting star
// rating back, with the same carry-over rule and partial-failure boundary
// as ApplyPenalty.
func ApplyAward(ctx context.Context, db *sql.DB, user *model.User, starsAdded int64, reason string) (int64, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO awards (gov_id, stars_added, reason) VALUES (?, ?, ?)`,
		user.GovID, starsAdded, nullable(reason),
	)
	if err != nil {
		return 0, fmt.Errorf("creating award: %w", err)
	}

	newStars := awardBaseline + starsAdded
	if user.Stars != nil {
		newStars = *user.Stars
	}

	if err := UpdateUserStars(ctx, db, user.GovID, newStars); err != nil {
		return 0, err
	}
	return newStars, nil
}

// ListPenaltiesByGovID returns all penalties recorded against a user.
func ListPenaltiesByGovID(ctx context.Context, db *sql.DB, govID string) ([]model.Penalty, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, gov_id, stars_reduced, reason, created_at
		 FROM penalties WHERE gov_id = ? ORDER BY created_at DESC`,
		govID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing penalties: %w", err)
	}
	defer rows.Close()

	var penalties []model.Penalty
	for rows.Next() {
		var p model.Penalty
		var reason sql.NullString
		if err := rows.Scan(&p.ID, &p.GovID, &p.StarsReduced, &reason, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning penalty: %w", err)
		}
		p.Reason = reason.String
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}
