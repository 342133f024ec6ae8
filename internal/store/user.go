package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// userStore はUserStoreインターフェースの実装。
type userStore struct {
	d *Database
}

// NewUserStore は新しいUserStoreを生成する。
func NewUserStore(d *Database) UserStore {
	return &userStore{d: d}
}

func (s *userStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.d.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *userStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.d.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *userStore) List(ctx context.Context, offset, limit int, search string) ([]model.User, int64, error) {
	q := s.d.db.WithContext(ctx).Model(&model.User{})
	if search != "" {
		q = q.Where("username LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []model.User
	if err := q.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	// is_activeはdefault:trueのため、INSERTではfalseが既定値に置き換わる。
	// 無効指定は同じトランザクション内で書き戻す。
	active := user.IsActive
	err := s.d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		user.IsActive = false
		return tx.Model(user).Update("is_active", false).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	res := s.d.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"username":   user.Username,
			"password":   user.Password,
			"is_active":  user.IsActive,
			"profile":    user.Profile,
			"expired_at": user.ExpiredAt,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) Delete(ctx context.Context, id uint) error {
	res := s.d.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) Count(ctx context.Context) (total, active int64, err error) {
	if err = s.d.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	if err = s.d.db.WithContext(ctx).Model(&model.User{}).
		Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("count active users: %w", err)
	}
	return total, active, nil
}
