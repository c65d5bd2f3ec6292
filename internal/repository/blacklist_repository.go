package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlacklistRepository struct {
	db *gorm.DB
}

func NewBlacklistRepository(db *gorm.DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

func (Keyword) TableName() string {
	return "blacklist_keywords"
}

type Keyword struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Keyword   string    `gorm:"not null;uniqueIndex"`
	Note      *string
	CreatedAt time.Time
}

func (r *BlacklistRepository) ListKeywords(ctx context.Context) ([]Keyword, error) {
	var keywords []Keyword
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&keywords).Error
	return keywords, err
}

// AddKeyword inserts a keyword, silently keeping the existing row on
// conflict so bulk imports can be re-run.
func (r *BlacklistRepository) AddKeyword(ctx context.Context, keyword string, note *string) (uuid.UUID, error) {
	row := Keyword{
		ID:        uuid.New(),
		Keyword:   keyword,
		Note:      note,
		CreatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "keyword"}},
			DoNothing: true,
		}).
		Create(&row).Error
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create blacklist keyword: %w", err)
	}

	var stored Keyword
	if err := r.db.WithContext(ctx).Where("keyword = ?", keyword).First(&stored).Error; err != nil {
		return uuid.Nil, err
	}
	return stored.ID, nil
}

func (r *BlacklistRepository) DeleteKeyword(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Keyword{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
