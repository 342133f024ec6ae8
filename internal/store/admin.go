package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// adminStore はAdminStoreインターフェースの実装。
type adminStore struct {
	d *Database
}

// NewAdminStore は新しいAdminStoreを生成する。
func NewAdminStore(d *Database) AdminStore {
	return &adminStore{d: d}
}

func (s *adminStore) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := s.d.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &admin, nil
}

func (s *adminStore) GetByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	err := s.d.db.WithContext(ctx).First(&admin, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &admin, nil
}
