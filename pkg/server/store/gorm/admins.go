package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

var (
	_ store.AdminsStore         = (*AdminsStore)(nil)
	_ store.PasswordResetsStore = (*AdminsStore)(nil)
)

// AdminsStore implements store.AdminsStore and store.PasswordResetsStore using GORM
type AdminsStore struct {
	db *gorm.DB
}

// NewAdminsStore creates a new AdminsStore
func NewAdminsStore(db *gorm.DB) *AdminsStore {
	return &AdminsStore{db: db}
}

func (s *AdminsStore) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	admin.Email = model.NormalizeEmail(admin.Email)
	return translate(s.db.WithContext(ctx).Create(admin).Error)
}

func (s *AdminsStore) GetAdmin(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *AdminsStore) FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := s.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).First(&admin).Error
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *AdminsStore) UpdateAdminPassword(ctx context.Context, id uint, hash string) error {
	return affected(s.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("password_hash", hash))
}

func (s *AdminsStore) CreatePasswordReset(ctx context.Context, reset *model.PasswordReset) error {
	return translate(s.db.WithContext(ctx).Create(reset).Error)
}

func (s *AdminsStore) FindPasswordReset(ctx context.Context, tokenHash string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	if err := s.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&reset).Error; err != nil {
		return nil, translate(err)
	}
	return &reset, nil
}

func (s *AdminsStore) RedeemPasswordReset(ctx context.Context, reset *model.PasswordReset, hash string, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PasswordReset{}).
			Where("id = ? AND used_at IS NULL", reset.ID).
			Update("used_at", now)
		if err := affected(res); err != nil {
			return err
		}
		return affected(tx.Model(&model.Admin{}).Where("id = ?", reset.AdminID).Update("password_hash", hash))
	})
}
