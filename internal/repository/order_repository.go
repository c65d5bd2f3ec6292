package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"delivery-advisor/internal/domain/order"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (OrderRecord) TableName() string {
	return "delivery_orders"
}

type OrderRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Platform         string         `gorm:"not null"`
	Amount           float64        `gorm:"not null"`
	PickupAddress    string         `gorm:"not null"`
	DropoffAddress   string         `gorm:"not null"`
	DistanceKm       float64        `gorm:"not null"`
	DurationMin      float64        `gorm:"not null"`
	EarningsPerKm    float64        `gorm:"not null"`
	Suggestion       string         `gorm:"not null"`
	BlacklistVerdict string         `gorm:"not null"`
	Features         datatypes.JSON `gorm:"type:jsonb"`
	RawText          string         `gorm:"not null"`
	SnapshotURL      *string
	CreatedAt        time.Time
}

func (r *OrderRepository) SaveOrder(ctx context.Context, o *order.Order) error {
	record := OrderRecord{
		ID:               o.ID,
		Platform:         string(o.Platform),
		Amount:           o.Amount,
		PickupAddress:    o.PickupAddress,
		DropoffAddress:   o.DropoffAddress,
		DistanceKm:       o.DistanceKm,
		DurationMin:      o.DurationMin,
		EarningsPerKm:    o.EarningsPerKm,
		Suggestion:       o.Suggestion,
		BlacklistVerdict: o.BlacklistVerdict,
		RawText:          o.RawText,
		SnapshotURL:      o.SnapshotURL,
		CreatedAt:        time.Now(),
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if len(o.Features) > 0 {
		raw, err := json.Marshal(o.Features)
		if err != nil {
			return fmt.Errorf("marshal features: %w", err)
		}
		record.Features = datatypes.JSON(raw)
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create delivery order: %w", err)
	}

	o.ID = record.ID
	o.CreatedAt = record.CreatedAt
	return nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, platform string, limit, offset int) ([]order.Order, error) {
	query := r.db.WithContext(ctx).Model(&OrderRecord{})

	if platform != "" {
		query = query.Where("platform = ?", platform)
	}

	query = query.Order("created_at DESC")

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	query = query.Limit(limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	var records []OrderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	result := make([]order.Order, 0, len(records))
	for _, rec := range records {
		o := order.Order{
			ID:               rec.ID,
			Platform:         order.Platform(rec.Platform),
			Amount:           rec.Amount,
			PickupAddress:    rec.PickupAddress,
			DropoffAddress:   rec.DropoffAddress,
			DistanceKm:       rec.DistanceKm,
			DurationMin:      rec.DurationMin,
			EarningsPerKm:    rec.EarningsPerKm,
			Suggestion:       rec.Suggestion,
			BlacklistVerdict: rec.BlacklistVerdict,
			RawText:          rec.RawText,
			SnapshotURL:      rec.SnapshotURL,
			CreatedAt:        rec.CreatedAt,
		}
		if len(rec.Features) > 0 {
			if err := json.Unmarshal(rec.Features, &o.Features); err != nil {
				return nil, fmt.Errorf("unmarshal features: %w", err)
			}
		}
		result = append(result, o)
	}

	return result, nil
}
