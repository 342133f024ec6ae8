package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// nasStore はNasStoreインターフェースの実装。
type nasStore struct {
	d *Database
}

// NewNasStore は新しいNasStoreを生成する。
func NewNasStore(d *Database) NasStore {
	return &nasStore{d: d}
}

func (s *nasStore) FindActiveByIP(ctx context.Context, ip string) (*model.Nas, error) {
	var nas model.Nas
	err := s.d.db.WithContext(ctx).
		Where("ip_address = ? AND is_active = ?", ip, true).
		First(&nas).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find nas: %w", err)
	}
	return &nas, nil
}

func (s *nasStore) GetByID(ctx context.Context, id uint) (*model.Nas, error) {
	var nas model.Nas
	err := s.d.db.WithContext(ctx).First(&nas, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get nas: %w", err)
	}
	return &nas, nil
}

func (s *nasStore) List(ctx context.Context) ([]model.Nas, error) {
	var list []model.Nas
	if err := s.d.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list nas: %w", err)
	}
	return list, nil
}

func (s *nasStore) Create(ctx context.Context, nas *model.Nas) error {
	// is_activeはdefault:trueのため、INSERTではfalseが既定値に置き換わる。
	// 無効指定は同じトランザクション内で書き戻す。
	active := nas.IsActive
	err := s.d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(nas).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		nas.IsActive = false
		return tx.Model(nas).Update("is_active", false).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create nas: %w", err)
	}
	return nil
}

func (s *nasStore) Update(ctx context.Context, nas *model.Nas) error {
	res := s.d.db.WithContext(ctx).Model(&model.Nas{}).
		Where("id = ?", nas.ID).
		Updates(map[string]any{
			"ip_address":  nas.IPAddress,
			"secret":      nas.Secret,
			"name":        nas.Name,
			"vendor_type": nas.VendorType,
			"is_active":   nas.IsActive,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("update nas: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *nasStore) Delete(ctx context.Context, id uint) error {
	res := s.d.db.WithContext(ctx).Delete(&model.Nas{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete nas: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *nasStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.d.db.WithContext(ctx).Model(&model.Nas{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count nas: %w", err)
	}
	return count, nil
}
