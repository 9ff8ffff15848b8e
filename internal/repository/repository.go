package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/apperr"
)

// TxManager runs a unit of work in one database transaction.
// Repositories join it through their WithTx method.
type TxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) *TxManager { return &TxManager{db: db} }

func (m *TxManager) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// notFound 将 gorm 的记录不存在转换为 apperr.ErrNotFound
func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s %s", what, id)
	}
	return err
}

func duplicated(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func window(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 10
	}
	return offset, limit
}
