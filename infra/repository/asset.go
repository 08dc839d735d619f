package repository

import (
	"context"
	"time"

	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository returns the gorm-backed asset catalog repository.
func NewAssetRepository(db *gorm.DB) repository.AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Get(ctx context.Context, ticker string) (*dto.AssetRead, error) {
	var row Asset
	if err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		First(&row).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapAssetToDTO(&row), nil
}

func (r *assetRepository) List(ctx context.Context) ([]dto.AssetRead, error) {
	var rows []Asset
	if err := r.db.WithContext(ctx).Order("ticker ASC").Find(&rows).Error; err != nil {
		return nil, mapGormError(err)
	}
	assets := make([]dto.AssetRead, 0, len(rows))
	for i := range rows {
		assets = append(assets, *mapAssetToDTO(&rows[i]))
	}
	return assets, nil
}

// UpdatePrice is last-writer-wins per ticker; concurrent refreshes never
// corrupt a row, at worst one overwrites the other with an equally fresh
// quote.
func (r *assetRepository) UpdatePrice(
	ctx context.Context,
	ticker string,
	price decimal.Decimal,
	cur currency.Code,
	at time.Time,
) error {
	return mapGormError(r.db.WithContext(ctx).Model(&Asset{}).
		Where("ticker = ?", ticker).
		Updates(map[string]interface{}{
			"current_price": price,
			"currency":      cur.String(),
			"last_updated":  at,
		}).Error)
}

func mapAssetToDTO(row *Asset) *dto.AssetRead {
	return &dto.AssetRead{
		Ticker:       row.Ticker,
		Name:         row.Name,
		AssetType:    row.AssetType,
		Source:       row.Source,
		APITicker:    row.APITicker,
		Currency:     row.Currency,
		CurrentPrice: row.CurrentPrice,
		IconURL:      row.IconURL,
		LastUpdated:  row.LastUpdated,
	}
}

var _ repository.AssetRepository = (*assetRepository)(nil)
