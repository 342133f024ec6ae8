package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// profileStore はProfileStoreインターフェースの実装。
type profileStore struct {
	d *Database
}

// NewProfileStore は新しいProfileStoreを生成する。
func NewProfileStore(d *Database) ProfileStore {
	return &profileStore{d: d}
}

func (s *profileStore) FindByName(ctx context.Context, name string) (*model.Profile, error) {
	var profile model.Profile
	err := s.d.db.WithContext(ctx).Where("name = ?", name).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}

func (s *profileStore) List(ctx context.Context) ([]model.Profile, error) {
	var list []model.Profile
	if err := s.d.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return list, nil
}

func (s *profileStore) Create(ctx context.Context, profile *model.Profile) error {
	err := s.d.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
