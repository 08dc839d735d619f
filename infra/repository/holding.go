package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/domain/portfolio"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"gorm.io/gorm"
)

type holdingRepository struct {
	db *gorm.DB
}

// NewHoldingRepository returns the gorm-backed holding repository.
func NewHoldingRepository(db *gorm.DB) repository.HoldingRepository {
	return &holdingRepository{db: db}
}

func (r *holdingRepository) Create(ctx context.Context, h dto.HoldingCreate) error {
	row := &Holding{
		UserID:      h.UserID,
		Ticker:      h.Ticker,
		Quantity:    h.Quantity,
		AvgBuyPrice: h.AvgBuyPrice,
	}
	return mapGormError(r.db.WithContext(ctx).Create(row).Error)
}

func (r *holdingRepository) Exists(
	ctx context.Context,
	userID uuid.UUID,
	ticker string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Holding{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *holdingRepository) Update(
	ctx context.Context,
	userID uuid.UUID,
	ticker string,
	u dto.HoldingUpdate,
) error {
	updates := make(map[string]interface{})
	if u.Quantity != nil {
		updates["quantity"] = *u.Quantity
	}
	if u.AvgBuyPrice != nil {
		updates["avg_buy_price"] = *u.AvgBuyPrice
	}
	if len(updates) == 0 {
		return nil
	}
	return mapGormError(r.db.WithContext(ctx).Model(&Holding{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Updates(updates).Error)
}

func (r *holdingRepository) Delete(
	ctx context.Context,
	userID uuid.UUID,
	ticker string,
) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Delete(&Holding{})
	return res.RowsAffected, mapGormError(res.Error)
}

func (r *holdingRepository) ListJoined(
	ctx context.Context,
	userID uuid.UUID,
) ([]portfolio.HoldingRow, error) {
	query := `
		SELECT h.ticker,
		       a.name,
		       h.quantity,
		       h.avg_buy_price,
		       a.current_price,
		       a.currency AS asset_currency,
		       a.icon_url
		FROM holdings h
		JOIN assets a ON a.ticker = h.ticker
		WHERE h.user_id = ?
		ORDER BY h.ticker ASC`

	var rows []portfolio.HoldingRow
	if err := r.db.WithContext(ctx).Raw(query, userID).Scan(&rows).Error; err != nil {
		return nil, mapGormError(err)
	}
	return rows, nil
}

func (r *holdingRepository) DistinctTickers(ctx context.Context) ([]string, error) {
	var tickers []string
	if err := r.db.WithContext(ctx).Model(&Holding{}).
		Distinct("ticker").
		Order("ticker ASC").
		Pluck("ticker", &tickers).Error; err != nil {
		return nil, mapGormError(err)
	}
	return tickers, nil
}

var _ repository.HoldingRepository = (*holdingRepository)(nil)
