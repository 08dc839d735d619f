// Package fake provides an in-memory UnitOfWork for service tests. Do takes
// a snapshot of the store and restores it when the callback fails, so
// rollback behavior can be asserted without a database.
package fake

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/pkg/domain/ledger"
	"github.com/phoebudget/phoebudget/pkg/domain/portfolio"
	"github.com/phoebudget/phoebudget/pkg/domain/session"
	"github.com/phoebudget/phoebudget/pkg/dto"
	"github.com/phoebudget/phoebudget/pkg/repository"
	"github.com/shopspring/decimal"
)

type pocketRecord struct {
	dto.PocketRead
	UserID uuid.UUID
}

type holdingKey struct {
	UserID uuid.UUID
	Ticker string
}

type holdingRecord struct {
	Quantity    decimal.Decimal
	AvgBuyPrice decimal.Decimal
}

// Store is the in-memory state shared by all repositories of one UoW.
type Store struct {
	mu sync.Mutex

	Users        map[uuid.UUID]dto.UserRead
	Pockets      map[uuid.UUID]pocketRecord
	Categories   map[int32]dto.CategoryRead
	Transactions map[uuid.UUID]ledger.Transaction
	Assets       map[string]dto.AssetRead
	Holdings     map[holdingKey]holdingRecord
	Tokens       map[uuid.UUID]session.RefreshToken

	// CreateTransactionHook, when set, runs before each transaction insert
	// and can inject a failure.
	CreateTransactionHook func(t *ledger.Transaction) error

	// CreateTokenHook, when set, runs before each refresh token insert. Tests
	// use it to mutate the store mid-redemption, e.g. to let a competing
	// rotation win between the state check and the swap.
	CreateTokenHook func(t *session.RefreshToken) error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Users:        make(map[uuid.UUID]dto.UserRead),
		Pockets:      make(map[uuid.UUID]pocketRecord),
		Categories:   make(map[int32]dto.CategoryRead),
		Transactions: make(map[uuid.UUID]ledger.Transaction),
		Assets:       make(map[string]dto.AssetRead),
		Holdings:     make(map[holdingKey]holdingRecord),
		Tokens:       make(map[uuid.UUID]session.RefreshToken),
	}
}

// SeedUser inserts a user and their default pocket, returning both ids.
func (s *Store) SeedUser(email, baseCurrency string) (uuid.UUID, uuid.UUID) {
	userID := uuid.New()
	s.Users[userID] = dto.UserRead{
		ID:           userID,
		Username:     strings.Split(email, "@")[0],
		Email:        email,
		BaseCurrency: baseCurrency,
	}
	pocketID := s.SeedPocket(userID, "Main", true)
	return userID, pocketID
}

// SeedPocket inserts a pocket for the user.
func (s *Store) SeedPocket(userID uuid.UUID, name string, isDefault bool) uuid.UUID {
	id := uuid.New()
	s.Pockets[id] = pocketRecord{
		PocketRead: dto.PocketRead{
			ID:        id,
			Name:      name,
			Icon:      "account_balance_wallet",
			IsDefault: isDefault,
			CreatedAt: time.Now().UTC(),
		},
		UserID: userID,
	}
	return id
}

// SeedCategory inserts a category.
func (s *Store) SeedCategory(id int32, name string, isIncome, exclude bool) {
	s.Categories[id] = dto.CategoryRead{
		ID:                  id,
		Name:                name,
		IsIncome:            isIncome,
		ExcludeFromAnalysis: exclude,
	}
}

// SeedTransferCategories inserts the paired transfer categories.
func (s *Store) SeedTransferCategories() {
	s.SeedCategory(98, "Transfer Out", false, true)
	s.SeedCategory(99, "Transfer In", true, true)
}

// SeedAsset inserts a catalog asset with a current price.
func (s *Store) SeedAsset(ticker, source, cur string, price decimal.Decimal) {
	s.Assets[ticker] = dto.AssetRead{
		Ticker:       ticker,
		Name:         ticker,
		AssetType:    "stock",
		Source:       source,
		Currency:     cur,
		CurrentPrice: price,
	}
}

func (s *Store) snapshot() *Store {
	c := NewStore()
	for k, v := range s.Users {
		c.Users[k] = v
	}
	for k, v := range s.Pockets {
		c.Pockets[k] = v
	}
	for k, v := range s.Categories {
		c.Categories[k] = v
	}
	for k, v := range s.Transactions {
		c.Transactions[k] = v
	}
	for k, v := range s.Assets {
		c.Assets[k] = v
	}
	for k, v := range s.Holdings {
		c.Holdings[k] = v
	}
	for k, v := range s.Tokens {
		c.Tokens[k] = v
	}
	return c
}

func (s *Store) restore(from *Store) {
	s.Users = from.Users
	s.Pockets = from.Pockets
	s.Categories = from.Categories
	s.Transactions = from.Transactions
	s.Assets = from.Assets
	s.Holdings = from.Holdings
	s.Tokens = from.Tokens
}

// UoW is the in-memory repository.UnitOfWork.
type UoW struct {
	store *Store
}

// NewUoW wraps a store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Do snapshots the store, runs fn, and restores the snapshot on error.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.store.mu.Lock()
	snap := u.store.snapshot()
	u.store.mu.Unlock()

	if err := fn(u); err != nil {
		u.store.mu.Lock()
		u.store.restore(snap)
		u.store.mu.Unlock()
		return err
	}
	return nil
}

func (u *UoW) Users() repository.UserRepository { return &userRepo{u.store} }

func (u *UoW) Transactions() repository.TransactionRepository { return &transactionRepo{u.store} }

func (u *UoW) Pockets() repository.PocketRepository { return &pocketRepo{u.store} }

func (u *UoW) Categories() repository.CategoryRepository { return &categoryRepo{u.store} }

func (u *UoW) Assets() repository.AssetRepository { return &assetRepo{u.store} }

func (u *UoW) Holdings() repository.HoldingRepository { return &holdingRepo{u.store} }

func (u *UoW) RefreshTokens() repository.RefreshTokenRepository { return &refreshTokenRepo{u.store} }

var _ repository.UnitOfWork = (*UoW)(nil)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, u dto.UserRead) error {
	r.s.Users[u.ID] = u
	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	u, ok := r.s.Users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	for _, u := range r.s.Users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*dto.UserRead, error) {
	for _, u := range r.s.Users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) Exists(ctx context.Context, email, username string) (bool, error) {
	for _, u := range r.s.Users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) UpdateBaseCurrency(ctx context.Context, id uuid.UUID, code currency.Code) error {
	u, ok := r.s.Users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.BaseCurrency = code.String()
	r.s.Users[id] = u
	return nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(ctx context.Context, t *ledger.Transaction) error {
	if r.s.CreateTransactionHook != nil {
		if err := r.s.CreateTransactionHook(t); err != nil {
			return err
		}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.s.Transactions[t.ID] = *t
	return nil
}

func (r *transactionRepo) Save(ctx context.Context, t *ledger.Transaction) error {
	if _, ok := r.s.Transactions[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Transactions[t.ID] = *t
	return nil
}

func (r *transactionRepo) Get(ctx context.Context, id, userID uuid.UUID) (*ledger.Transaction, error) {
	t, ok := r.s.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *transactionRepo) GetByTransferID(
	ctx context.Context,
	transferID, userID uuid.UUID,
) ([]*ledger.Transaction, error) {
	var legs []*ledger.Transaction
	for _, t := range r.s.Transactions {
		if t.UserID == userID && t.TransferID != nil && *t.TransferID == transferID {
			t := t
			legs = append(legs, &t)
		}
	}
	return legs, nil
}

func (r *transactionRepo) GetRead(ctx context.Context, id, userID uuid.UUID) (*dto.TransactionRead, error) {
	t, err := r.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return r.toRead(t), nil
}

func (r *transactionRepo) toRead(t *ledger.Transaction) *dto.TransactionRead {
	read := &dto.TransactionRead{
		ID:             t.ID,
		Amount:         t.Amount,
		Description:    t.Description,
		OccurredAt:     t.OccurredAt,
		CreatedAt:      t.CreatedAt,
		OriginalAmount: t.OriginalAmount,
		ExchangeRate:   t.ExchangeRate,
		TransferID:     t.TransferID,
		DeletedAt:      t.DeletedAt,
	}
	if t.OriginalCurrency != nil {
		s := t.OriginalCurrency.String()
		read.OriginalCurrency = &s
	}
	if c, ok := r.s.Categories[t.CategoryID]; ok {
		c := c
		read.Category = &c
	}
	if p, ok := r.s.Pockets[t.PocketID]; ok {
		pr := p.PocketRead
		read.Pocket = &pr
	}
	return read
}

func (r *transactionRepo) matches(t *ledger.Transaction, userID uuid.UUID, f dto.TransactionFilter) bool {
	if t.UserID != userID || t.DeletedAt != nil {
		return false
	}
	if f.StartDate != nil && t.OccurredAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.OccurredAt.After(*f.EndDate) {
		return false
	}
	if f.PocketID != nil && t.PocketID != *f.PocketID {
		return false
	}
	return true
}

func (r *transactionRepo) ListLive(
	ctx context.Context,
	userID uuid.UUID,
	f dto.TransactionFilter,
) ([]dto.TransactionRead, error) {
	var live []ledger.Transaction
	for _, t := range r.s.Transactions {
		if r.matches(&t, userID, f) {
			live = append(live, t)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		return live[i].OccurredAt.After(live[j].OccurredAt)
	})

	start := (f.Page - 1) * f.Limit
	if start > len(live) {
		start = len(live)
	}
	end := start + f.Limit
	if end > len(live) {
		end = len(live)
	}

	reads := make([]dto.TransactionRead, 0, end-start)
	for i := start; i < end; i++ {
		t := live[i]
		reads = append(reads, *r.toRead(&t))
	}
	return reads, nil
}

func (r *transactionRepo) CountLive(
	ctx context.Context,
	userID uuid.UUID,
	f dto.TransactionFilter,
) (int64, error) {
	var count int64
	for _, t := range r.s.Transactions {
		if r.matches(&t, userID, f) {
			count++
		}
	}
	return count, nil
}

func (r *transactionRepo) CountLiveByPocket(
	ctx context.Context,
	userID, pocketID uuid.UUID,
) (int64, error) {
	return r.CountLive(ctx, userID, dto.TransactionFilter{PocketID: &pocketID})
}

func (r *transactionRepo) signed(t *ledger.Transaction) decimal.Decimal {
	if c, ok := r.s.Categories[t.CategoryID]; ok && c.IsIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

func (r *transactionRepo) SumLiveSigned(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.s.Transactions {
		if t.UserID == userID && t.DeletedAt == nil {
			sum = sum.Add(r.signed(&t))
		}
	}
	return sum, nil
}

func (r *transactionRepo) SumLiveSignedByPocket(
	ctx context.Context,
	userID, pocketID uuid.UUID,
) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.s.Transactions {
		if t.UserID == userID && t.PocketID == pocketID && t.DeletedAt == nil {
			sum = sum.Add(r.signed(&t))
		}
	}
	return sum, nil
}

func (r *transactionRepo) CategoryTotals(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]dto.CategoryTotal, error) {
	byCategory := make(map[int32]decimal.Decimal)
	for _, t := range r.s.Transactions {
		if t.UserID != userID || t.DeletedAt != nil {
			continue
		}
		if t.OccurredAt.Before(start) || t.OccurredAt.After(end) {
			continue
		}
		c, ok := r.s.Categories[t.CategoryID]
		if !ok || c.ExcludeFromAnalysis {
			continue
		}
		byCategory[t.CategoryID] = byCategory[t.CategoryID].Add(t.Amount)
	}

	totals := make([]dto.CategoryTotal, 0, len(byCategory))
	for id, total := range byCategory {
		c := r.s.Categories[id]
		totals = append(totals, dto.CategoryTotal{
			Category: c.Name,
			Total:    total,
			IsIncome: c.IsIncome,
			Icon:     c.Icon,
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals, nil
}

type pocketRepo struct{ s *Store }

func (r *pocketRepo) Create(ctx context.Context, p dto.PocketCreate) (*dto.PocketRead, error) {
	read := dto.PocketRead{
		ID:          uuid.New(),
		Name:        p.Name,
		Description: p.Description,
		Icon:        p.Icon,
		IsDefault:   p.IsDefault,
		CreatedAt:   time.Now().UTC(),
	}
	r.s.Pockets[read.ID] = pocketRecord{PocketRead: read, UserID: p.UserID}
	return &read, nil
}

func (r *pocketRepo) Get(ctx context.Context, id, userID uuid.UUID) (*dto.PocketRead, error) {
	p, ok := r.s.Pockets[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	read := p.PocketRead
	return &read, nil
}

func (r *pocketRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*dto.PocketRead, error) {
	for _, p := range r.s.Pockets {
		if p.UserID == userID && p.IsDefault {
			read := p.PocketRead
			return &read, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *pocketRepo) List(ctx context.Context, userID uuid.UUID) ([]dto.PocketRead, error) {
	var reads []dto.PocketRead
	for _, p := range r.s.Pockets {
		if p.UserID == userID {
			reads = append(reads, p.PocketRead)
		}
	}
	sort.Slice(reads, func(i, j int) bool {
		if reads[i].IsDefault != reads[j].IsDefault {
			return reads[i].IsDefault
		}
		return reads[i].CreatedAt.Before(reads[j].CreatedAt)
	})
	return reads, nil
}

func (r *pocketRepo) Update(ctx context.Context, id, userID uuid.UUID, u dto.PocketUpdate) error {
	p, ok := r.s.Pockets[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Icon != nil {
		p.Icon = *u.Icon
	}
	r.s.Pockets[id] = p
	return nil
}

func (r *pocketRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	p, ok := r.s.Pockets[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.Pockets, id)
	return nil
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) List(ctx context.Context) ([]dto.CategoryRead, error) {
	reads := make([]dto.CategoryRead, 0, len(r.s.Categories))
	for _, c := range r.s.Categories {
		reads = append(reads, c)
	}
	sort.Slice(reads, func(i, j int) bool { return reads[i].ID < reads[j].ID })
	return reads, nil
}

func (r *categoryRepo) Get(ctx context.Context, id int32) (*dto.CategoryRead, error) {
	c, ok := r.s.Categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*dto.CategoryRead, error) {
	for _, c := range r.s.Categories {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type assetRepo struct{ s *Store }

func (r *assetRepo) Get(ctx context.Context, ticker string) (*dto.AssetRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Assets[ticker]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *assetRepo) List(ctx context.Context) ([]dto.AssetRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reads := make([]dto.AssetRead, 0, len(r.s.Assets))
	for _, a := range r.s.Assets {
		reads = append(reads, a)
	}
	sort.Slice(reads, func(i, j int) bool { return reads[i].Ticker < reads[j].Ticker })
	return reads, nil
}

func (r *assetRepo) UpdatePrice(
	ctx context.Context,
	ticker string,
	price decimal.Decimal,
	cur currency.Code,
	at time.Time,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Assets[ticker]
	if !ok {
		return domain.ErrNotFound
	}
	a.CurrentPrice = price
	a.Currency = cur.String()
	a.LastUpdated = &at
	r.s.Assets[ticker] = a
	return nil
}

type holdingRepo struct{ s *Store }

func (r *holdingRepo) Create(ctx context.Context, h dto.HoldingCreate) error {
	r.s.Holdings[holdingKey{h.UserID, h.Ticker}] = holdingRecord{
		Quantity:    h.Quantity,
		AvgBuyPrice: h.AvgBuyPrice,
	}
	return nil
}

func (r *holdingRepo) Exists(ctx context.Context, userID uuid.UUID, ticker string) (bool, error) {
	_, ok := r.s.Holdings[holdingKey{userID, ticker}]
	return ok, nil
}

func (r *holdingRepo) Update(
	ctx context.Context,
	userID uuid.UUID,
	ticker string,
	u dto.HoldingUpdate,
) error {
	key := holdingKey{userID, ticker}
	h, ok := r.s.Holdings[key]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Quantity != nil {
		h.Quantity = *u.Quantity
	}
	if u.AvgBuyPrice != nil {
		h.AvgBuyPrice = *u.AvgBuyPrice
	}
	r.s.Holdings[key] = h
	return nil
}

func (r *holdingRepo) Delete(ctx context.Context, userID uuid.UUID, ticker string) (int64, error) {
	key := holdingKey{userID, ticker}
	if _, ok := r.s.Holdings[key]; !ok {
		return 0, nil
	}
	delete(r.s.Holdings, key)
	return 1, nil
}

func (r *holdingRepo) ListJoined(ctx context.Context, userID uuid.UUID) ([]portfolio.HoldingRow, error) {
	var rows []portfolio.HoldingRow
	for key, h := range r.s.Holdings {
		if key.UserID != userID {
			continue
		}
		a := r.s.Assets[key.Ticker]
		rows = append(rows, portfolio.HoldingRow{
			Ticker:        key.Ticker,
			Name:          a.Name,
			Quantity:      h.Quantity,
			AvgBuyPrice:   h.AvgBuyPrice,
			CurrentPrice:  a.CurrentPrice,
			AssetCurrency: currency.Code(a.Currency),
			IconURL:       a.IconURL,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ticker < rows[j].Ticker })
	return rows, nil
}

func (r *holdingRepo) DistinctTickers(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]bool)
	for key := range r.s.Holdings {
		seen[key.Ticker] = true
	}
	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}

type refreshTokenRepo struct{ s *Store }

func (r *refreshTokenRepo) Create(ctx context.Context, t *session.RefreshToken) error {
	if r.s.CreateTokenHook != nil {
		if err := r.s.CreateTokenHook(t); err != nil {
			return err
		}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.s.Tokens[t.ID] = *t
	return nil
}

func (r *refreshTokenRepo) GetByHash(ctx context.Context, hash string) (*session.RefreshToken, error) {
	for _, t := range r.s.Tokens {
		if t.TokenHash == hash {
			t := t
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *refreshTokenRepo) MarkRotated(ctx context.Context, id uuid.UUID, replacedByHash string) error {
	t, ok := r.s.Tokens[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.ReplacedBy != nil || t.IsRevoked {
		return domain.ErrTokenReuseDetected
	}
	t.ReplacedBy = &replacedByHash
	r.s.Tokens[id] = t
	return nil
}

func (r *refreshTokenRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	t, ok := r.s.Tokens[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.IsRevoked = true
	r.s.Tokens[id] = t
	return nil
}

func (r *refreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for id, t := range r.s.Tokens {
		if t.UserID == userID {
			t.IsRevoked = true
			r.s.Tokens[id] = t
		}
	}
	return nil
}
