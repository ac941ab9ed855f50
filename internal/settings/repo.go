package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/rmagtibay/tindera-backend/pkg/db/models"
)

// Repository reads configuration rows. Writes happen in the back-office
// admin service, never here.
type Repository interface {
	FindByKey(ctx context.Context, key string) (*models.Setting, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}
