// repository/review_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fadhlanhapp/congno-backend/models"
)

// ReviewRepository handles database operations for owner reviews
type ReviewRepository struct {
	DB *sql.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// UpsertReview stores the owner's verdict for a debtor row, replacing any previous one
func (r *ReviewRepository) UpsertReview(ctx context.Context, review *models.OwnerReview) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO expense_debtor_reviews (expense_debtor_id, status, note, reviewed_by_id, updated_at)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (expense_debtor_id) DO UPDATE SET
             status = EXCLUDED.status,
             note = EXCLUDED.note,
             reviewed_by_id = EXCLUDED.reviewed_by_id,
             updated_at = EXCLUDED.updated_at`,
		review.ExpenseDebtorID, review.Status, nullString(review.Note),
		review.ReviewedByID, nullTime(review.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}
	return nil
}
