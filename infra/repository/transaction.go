package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain/ledger"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository returns the gorm-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *ledger.Transaction) error {
	return mapGormError(r.db.WithContext(ctx).Create(mapEntityToModel(t)).Error)
}

func (r *transactionRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	return mapGormError(r.db.WithContext(ctx).Save(mapEntityToModel(t)).Error)
}

func (r *transactionRepository) Get(
	ctx context.Context,
	id, userID uuid.UUID,
) (*ledger.Transaction, error) {
	var row Transaction
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error; err != nil {
		return nil, mapGormError(err)
	}
	return mapModelToEntity(&row), nil
}

func (r *transactionRepository) GetByTransferID(
	ctx context.Context,
	transferID, userID uuid.UUID,
) ([]*ledger.Transaction, error) {
	var rows []Transaction
	if err := r.db.WithContext(ctx).
		Where("transfer_id = ? AND user_id = ?", transferID, userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, mapGormError(err)
	}
	legs := make([]*ledger.Transaction, 0, len(rows))
	for i := range rows {
		legs = append(legs, mapModelToEntity(&rows[i]))
	}
	return legs, nil
}

func (r *transactionRepository) GetRead(
	ctx context.Context,
	id, userID uuid.UUID,
) (*dto.TransactionRead, error) {
	var row Transaction
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error; err != nil {
		return nil, mapGormError(err)
	}

	reads, err := r.decorate(ctx, []Transaction{row})
	if err != nil {
		return nil, err
	}
	return &reads[0], nil
}

func (r *transactionRepository) ListLive(
	ctx context.Context,
	userID uuid.UUID,
	f dto.TransactionFilter,
) ([]dto.TransactionRead, error) {
	var rows []Transaction
	q := r.liveQuery(ctx, userID, f).
		Order("occurred_at DESC, created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit)
	if err := q.Find(&rows).Error; err != nil {
		return nil, mapGormError(err)
	}
	return r.decorate(ctx, rows)
}

func (r *transactionRepository) CountLive(
	ctx context.Context,
	userID uuid.UUID,
	f dto.TransactionFilter,
) (int64, error) {
	var count int64
	err := r.liveQuery(ctx, userID, f).Count(&count).Error
	return count, mapGormError(err)
}

func (r *transactionRepository) CountLiveByPocket(
	ctx context.Context,
	userID, pocketID uuid.UUID,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("user_id = ? AND pocket_id = ? AND deleted_at IS NULL", userID, pocketID).
		Count(&count).Error
	return count, mapGormError(err)
}

// SumLiveSigned folds live rows into one signed cash figure: income
// categories add, the rest subtract. Transfer legs carry opposite is_income
// flags, so a transfer pair always nets to zero here.
func (r *transactionRepository) SumLiveSigned(
	ctx context.Context,
	userID uuid.UUID,
) (decimal.Decimal, error) {
	return r.sumSigned(ctx, userID, nil)
}

func (r *transactionRepository) SumLiveSignedByPocket(
	ctx context.Context,
	userID, pocketID uuid.UUID,
) (decimal.Decimal, error) {
	return r.sumSigned(ctx, userID, &pocketID)
}

func (r *transactionRepository) sumSigned(
	ctx context.Context,
	userID uuid.UUID,
	pocketID *uuid.UUID,
) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN c.is_income THEN t.amount ELSE -t.amount END), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.deleted_at IS NULL`
	args := []any{userID}
	if pocketID != nil {
		query += " AND t.pocket_id = ?"
		args = append(args, *pocketID)
	}

	var total decimal.Decimal
	row := r.db.WithContext(ctx).Raw(query, args...).Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *transactionRepository) CategoryTotals(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]dto.CategoryTotal, error) {
	query := `
		SELECT c.name AS category,
		       COALESCE(SUM(t.amount), 0) AS total,
		       c.is_income,
		       c.icon
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ?
		  AND t.deleted_at IS NULL
		  AND t.occurred_at BETWEEN ? AND ?
		  AND NOT c.exclude_from_analysis
		GROUP BY c.name, c.is_income, c.icon
		ORDER BY total DESC`

	var totals []dto.CategoryTotal
	if err := r.db.WithContext(ctx).
		Raw(query, userID, start, end).
		Scan(&totals).Error; err != nil {
		return nil, mapGormError(err)
	}
	return totals, nil
}

func (r *transactionRepository) liveQuery(
	ctx context.Context,
	userID uuid.UUID,
	f dto.TransactionFilter,
) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("user_id = ? AND deleted_at IS NULL", userID)
	if f.StartDate != nil {
		q = q.Where("occurred_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("occurred_at <= ?", *f.EndDate)
	}
	if f.PocketID != nil {
		q = q.Where("pocket_id = ?", *f.PocketID)
	}
	return q
}

// decorate joins category and pocket metadata onto the rows with two batch
// lookups instead of a per-row query.
func (r *transactionRepository) decorate(
	ctx context.Context,
	rows []Transaction,
) ([]dto.TransactionRead, error) {
	categoryIDs := make([]int32, 0, len(rows))
	pocketIDs := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		categoryIDs = append(categoryIDs, rows[i].CategoryID)
		pocketIDs = append(pocketIDs, rows[i].PocketID)
	}

	var categories []Category
	if err := r.db.WithContext(ctx).
		Where("id IN ?", categoryIDs).
		Find(&categories).Error; err != nil {
		return nil, mapGormError(err)
	}
	categoryByID := make(map[int32]*Category, len(categories))
	for i := range categories {
		categoryByID[categories[i].ID] = &categories[i]
	}

	var pockets []Pocket
	if err := r.db.WithContext(ctx).
		Where("id IN ?", pocketIDs).
		Find(&pockets).Error; err != nil {
		return nil, mapGormError(err)
	}
	pocketByID := make(map[uuid.UUID]*Pocket, len(pockets))
	for i := range pockets {
		pocketByID[pockets[i].ID] = &pockets[i]
	}

	reads := make([]dto.TransactionRead, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		read := dto.TransactionRead{
			ID:               row.ID,
			Amount:           row.Amount,
			Description:      row.Description,
			OccurredAt:       row.OccurredAt,
			CreatedAt:        row.CreatedAt,
			OriginalCurrency: row.OriginalCurrency,
			OriginalAmount:   row.OriginalAmount,
			ExchangeRate:     row.ExchangeRate,
			TransferID:       row.TransferID,
			DeletedAt:        row.DeletedAt,
		}
		if c, ok := categoryByID[row.CategoryID]; ok {
			read.Category = &dto.CategoryRead{
				ID:                  c.ID,
				Name:                c.Name,
				IsIncome:            c.IsIncome,
				Icon:                c.Icon,
				ExcludeFromAnalysis: c.ExcludeFromAnalysis,
			}
		}
		if p, ok := pocketByID[row.PocketID]; ok {
			read.Pocket = mapPocketToDTO(p)
		}
		reads = append(reads, read)
	}
	return reads, nil
}

func mapEntityToModel(t *ledger.Transaction) *Transaction {
	var originalCurrency *string
	if t.OriginalCurrency != nil {
		s := t.OriginalCurrency.String()
		originalCurrency = &s
	}
	return &Transaction{
		ID:               t.ID,
		UserID:           t.UserID,
		PocketID:         t.PocketID,
		CategoryID:       t.CategoryID,
		Amount:           t.Amount,
		Description:      t.Description,
		OccurredAt:       t.OccurredAt,
		CreatedAt:        t.CreatedAt,
		OriginalCurrency: originalCurrency,
		OriginalAmount:   t.OriginalAmount,
		ExchangeRate:     t.ExchangeRate,
		TransferID:       t.TransferID,
		DeletedAt:        t.DeletedAt,
	}
}

func mapModelToEntity(row *Transaction) *ledger.Transaction {
	var originalCurrency *currency.Code
	if row.OriginalCurrency != nil {
		c := currency.Code(*row.OriginalCurrency)
		originalCurrency = &c
	}
	return &ledger.Transaction{
		ID:               row.ID,
		UserID:           row.UserID,
		PocketID:         row.PocketID,
		CategoryID:       row.CategoryID,
		Amount:           row.Amount,
		Description:      row.Description,
		OccurredAt:       row.OccurredAt,
		CreatedAt:        row.CreatedAt,
		OriginalCurrency: originalCurrency,
		OriginalAmount:   row.OriginalAmount,
		ExchangeRate:     row.ExchangeRate,
		TransferID:       row.TransferID,
		DeletedAt:        row.DeletedAt,
	}
}

var _ repository.TransactionRepository = (*transactionRepository)(nil)
