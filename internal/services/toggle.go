// Package services implements the relationship, engagement and conversation
// engines: the transactional business logic between the HTTP handlers and
// the repositories.
package services

import (
	"errors"

	"github.com/mhasanr/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// toggleRelation flips membership of a uniqueness-constrained relation row
// (Follow, Like, CommentLike, SavedPost) inside the given transaction.
// Delete-first: when the row identified by cond exists it is removed and
// adjust(-1) runs; otherwise row is inserted and adjust(+1) runs. Returns
// whether the relation is active after the call.
//
// Two concurrent toggles that both miss the delete race on the insert; the
// unique index arbitrates, and the loser gets a CONFLICT error instead of a
// double-counted aggregate.
func toggleRelation[T any](tx *gorm.DB, cond map[string]interface{}, row *T, adjust func(tx *gorm.DB, delta int) error) (bool, error) {
	res := tx.Where(cond).Delete(new(T))
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		if adjust != nil {
			if err := adjust(tx, -1); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	if err := tx.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, models.NewConflictError("relation changed concurrently, retry", err)
		}
		return false, models.NewInternalError(err)
	}
	if adjust != nil {
		if err := adjust(tx, 1); err != nil {
			return false, err
		}
	}
	return true, nil
}

// adjustCounter moves a cached aggregate column by delta in the same
// transaction as the row change that caused it.
func adjustCounter(tx *gorm.DB, model interface{}, id uint, column string, delta int) error {
	if err := tx.Model(model).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// readCounter reads a cached aggregate column inside the transaction that
// just adjusted it.
func readCounter(tx *gorm.DB, model interface{}, id uint, column string, out *int) error {
	if err := tx.Model(model).Where("id = ?", id).
		Pluck(column, out).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
