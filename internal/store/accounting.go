package store

import (
	"context"
	"fmt"
	"time"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// accountingStore はAccountingStoreインターフェースの実装。
type accountingStore struct {
	d *Database
}

// NewAccountingStore は新しいAccountingStoreを生成する。
func NewAccountingStore(d *Database) AccountingStore {
	return &accountingStore{d: d}
}

func (s *accountingStore) Append(ctx context.Context, rec *model.AccountingRecord) error {
	if err := s.d.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("append accounting record: %w", err)
	}
	return nil
}

func (s *accountingStore) List(ctx context.Context, offset, limit int) ([]model.AccountingRecord, int64, error) {
	var total int64
	if err := s.d.db.WithContext(ctx).Model(&model.AccountingRecord{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count accounting records: %w", err)
	}

	var list []model.AccountingRecord
	err := s.d.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list accounting records: %w", err)
	}
	return list, total, nil
}

// sumRow はSUM集計の受け皿
type sumRow struct {
	Input  int64
	Output int64
}

func (s *accountingStore) SumOctetsSince(ctx context.Context, since time.Time) (int64, int64, error) {
	var row sumRow
	err := s.d.db.WithContext(ctx).Model(&model.AccountingRecord{}).
		Select("COALESCE(SUM(input_octets), 0) AS input, COALESCE(SUM(output_octets), 0) AS output").
		Where("created_at >= ?", since).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("sum accounting octets: %w", err)
	}
	return row.Input, row.Output, nil
}
