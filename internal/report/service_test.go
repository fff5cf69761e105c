package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danuarta/dompetku/internal/ledger"
	"github.com/danuarta/dompetku/internal/platform/user"
	"github.com/danuarta/dompetku/internal/platform/wallet"
	"github.com/danuarta/dompetku/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeRepo struct {
	monthly map[uuid.UUID]map[string]decimal.Decimal
	firstTx map[uuid.UUID]time.Time
	since   map[uuid.UUID]decimal.Decimal
	txs     []*ledger.Transaction
}

func (r *fakeRepo) MonthlyNetChanges(context.Context, uuid.UUID, time.Time) (map[uuid.UUID]map[string]decimal.Decimal, error) {
	return r.monthly, nil
}

func (r *fakeRepo) FirstTransactionMonths(context.Context, uuid.UUID) (map[uuid.UUID]time.Time, error) {
	return r.firstTx, nil
}

func (r *fakeRepo) NetChangesSince(context.Context, uuid.UUID, time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	return r.since, nil
}

func (r *fakeRepo) TransactionsInRange(context.Context, uuid.UUID, time.Time, time.Time) ([]*ledger.Transaction, error) {
	return r.txs, nil
}

type fakeWallets struct {
	wallets []*wallet.Wallet
}

func (s *fakeWallets) GetByUserID(context.Context, uuid.UUID) ([]*wallet.Wallet, error) {
	return s.wallets, nil
}

func (s *fakeWallets) GetActiveByUserID(context.Context, uuid.UUID) ([]*wallet.Wallet, error) {
	var out []*wallet.Wallet
	for _, w := range s.wallets {
		if w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeUsers struct {
	plan user.Plan
}

func (s *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	until := time.Now().AddDate(1, 0, 0)
	return &user.User{ID: id, Plan: s.plan, SubscriptionUntil: &until}, nil
}

// fakeConverter converts through fixed to-base rates.
type fakeConverter struct {
	base  string
	rates map[string]decimal.Decimal
}

func (c *fakeConverter) BaseCurrency() string { return c.base }

func (c *fakeConverter) ToBase(_ context.Context, amount decimal.Decimal, currency string, _ *decimal.Decimal) decimal.Decimal {
	if currency == c.base {
		return amount
	}
	if rate, ok := c.rates[currency]; ok {
		return amount.Mul(rate)
	}
	return amount
}

func (c *fakeConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, override *decimal.Decimal) decimal.Decimal {
	if from == to {
		return amount
	}
	return c.ToBase(ctx, amount, from, override)
}

type reportFixture struct {
	svc     *Service
	repo    *fakeRepo
	wallets *fakeWallets
	userID  uuid.UUID
}

func newReportFixture(t *testing.T, plan user.Plan, now string) *reportFixture {
	t.Helper()
	repo := &fakeRepo{
		monthly: map[uuid.UUID]map[string]decimal.Decimal{},
		firstTx: map[uuid.UUID]time.Time{},
		since:   map[uuid.UUID]decimal.Decimal{},
	}
	wallets := &fakeWallets{}
	svc := NewService(repo, wallets, &fakeUsers{plan: plan},
		&fakeConverter{base: "IDR", rates: map[string]decimal.Decimal{"USD": d("16000")}},
		logger.NewDefault("test"))
	svc.now = func() time.Time { return day(now) }
	return &reportFixture{svc: svc, repo: repo, wallets: wallets, userID: uuid.New()}
}

func (f *reportFixture) addWallet(currency, balance, createdAt string) *wallet.Wallet {
	w := &wallet.Wallet{
		ID:        uuid.New(),
		UserID:    f.userID,
		Name:      "Wallet " + uuid.NewString()[:8],
		Type:      wallet.TypeBank,
		Currency:  currency,
		Balance:   d(balance),
		IsActive:  true,
		CreatedAt: day(createdAt),
	}
	f.wallets.wallets = append(f.wallets.wallets, w)
	return w
}

func TestHistoricalSeries_RevertsFutureTransactions(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-03-20")
	w := f.addWallet("IDR", "1200000", "2026-01-01")

	// January income then a February expense; current balance already
	// reflects both.
	f.repo.firstTx[w.ID] = day("2026-01-01")
	f.repo.monthly[w.ID] = map[string]decimal.Decimal{
		"2026-01": d("200000"),
		"2026-02": d("-200000"),
	}

	series, err := f.svc.HistoricalSeries(context.Background(), f.userID, Range3M)
	require.NoError(t, err)
	require.Len(t, series.Points, 3)

	row := series.Rows[0]
	// January month-end predates the February expense: revert it.
	assert.True(t, row.Balances["2026-01"].Equal(d("1400000")),
		"got %s", row.Balances["2026-01"])
	assert.True(t, row.Balances["2026-02"].Equal(d("1200000")))
	// The current month-end equals the stored balance exactly.
	assert.True(t, row.Balances["2026-03"].Equal(d("1200000")))
}

func TestHistoricalSeries_RollsBackFutureDatedEffects(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-03-20")
	w := f.addWallet("IDR", "1200000", "2026-01-01")

	// A scheduled April income is already folded into the stored
	// balance, but postdates every month-end in the window.
	f.repo.firstTx[w.ID] = day("2026-01-01")
	f.repo.monthly[w.ID] = map[string]decimal.Decimal{
		"2026-04": d("200000"),
	}

	series, err := f.svc.HistoricalSeries(context.Background(), f.userID, Range3M)
	require.NoError(t, err)

	row := series.Rows[0]
	assert.True(t, row.Balances["2026-03"].Equal(d("1000000")),
		"got %s", row.Balances["2026-03"])
	assert.True(t, row.Balances["2026-02"].Equal(d("1000000")))
	assert.True(t, row.Balances["2026-01"].Equal(d("1000000")))
}

func TestHistoricalSeries_BirthMonthZeroing(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-03-20")
	old := f.addWallet("IDR", "100000", "2026-01-01")
	young := f.addWallet("IDR", "50000", "2026-03-05")

	f.repo.firstTx[old.ID] = day("2026-01-01")
	f.repo.firstTx[young.ID] = day("2026-03-01")

	series, err := f.svc.HistoricalSeries(context.Background(), f.userID, Range3M)
	require.NoError(t, err)
	require.Len(t, series.Rows, 2)

	youngRow := series.Rows[1]
	assert.True(t, youngRow.Balances["2026-01"].IsZero())
	assert.True(t, youngRow.Balances["2026-02"].IsZero())
	assert.True(t, youngRow.Balances["2026-03"].Equal(d("50000")))

	// Totals exclude the unborn wallet for the early points.
	assert.True(t, series.Totals["2026-01"].Equal(d("100000")))
	assert.True(t, series.Totals["2026-03"].Equal(d("150000")))
}

func TestHistoricalSeries_StarterPlanClampsWindow(t *testing.T) {
	f := newReportFixture(t, user.PlanStarter, "2026-08-15")
	w := f.addWallet("IDR", "100000", "2025-01-01")
	f.repo.firstTx[w.ID] = day("2025-01-01")

	series, err := f.svc.HistoricalSeries(context.Background(), f.userID, Range1Y)
	require.NoError(t, err)
	assert.Len(t, series.Points, 3)
	assert.Equal(t, "2026-06", series.Points[0].Key)
	assert.Equal(t, "2026-08", series.Points[2].Key)
}

func TestHistoricalSeries_NoHistoryCollapsesToCurrentMonth(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-08-15")
	w := f.addWallet("IDR", "250000", "2026-08-01")

	series, err := f.svc.HistoricalSeries(context.Background(), f.userID, RangeAll)
	require.NoError(t, err)
	require.Len(t, series.Points, 1)
	assert.Equal(t, "2026-08", series.Points[0].Key)
	assert.True(t, series.Rows[0].Balances["2026-08"].Equal(w.Balance))
}

func TestHistoricalSeries_ConvertsTotalsToBase(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-08-15")
	idr := f.addWallet("IDR", "1000000", "2026-08-01")
	usd := f.addWallet("USD", "10", "2026-08-01")
	f.repo.firstTx[idr.ID] = day("2026-08-01")
	f.repo.firstTx[usd.ID] = day("2026-08-01")

	series, err := f.svc.HistoricalSeries(context.Background(), f.userID, RangeAll)
	require.NoError(t, err)

	// Per-wallet rows stay native; the total is normalized.
	assert.True(t, series.Rows[1].Balances["2026-08"].Equal(d("10")))
	assert.True(t, series.Totals["2026-08"].Equal(d("1160000")))
}

func TestStatement_RunningBalances(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-05-31")
	w := f.addWallet("IDR", "700000", "2026-01-01")

	// Opening = 700,000 - (300,000 - 100,000) = 500,000.
	f.repo.since[w.ID] = d("200000")
	f.repo.txs = []*ledger.Transaction{
		{ID: uuid.New(), UserID: f.userID, WalletID: w.ID, Type: ledger.TypeIncome,
			Amount: d("300000"), Date: day("2026-05-05"), IsActive: true},
		{ID: uuid.New(), UserID: f.userID, WalletID: w.ID, Type: ledger.TypeExpense,
			Amount: d("100000"), Date: day("2026-05-10"), IsActive: true},
	}

	st, err := f.svc.Statement(context.Background(), f.userID, StatementInput{
		Start: day("2026-05-01"), End: day("2026-05-31"),
	})
	require.NoError(t, err)
	require.Len(t, st.Wallets, 1)

	ws := st.Wallets[0]
	assert.True(t, ws.Summary.Opening.Equal(d("500000")))
	require.Len(t, ws.Lines, 2)
	assert.True(t, ws.Lines[0].Running.Equal(d("800000")))
	assert.True(t, ws.Lines[1].Running.Equal(d("700000")))
	assert.True(t, ws.Summary.Income.Equal(d("300000")))
	assert.True(t, ws.Summary.Expense.Equal(d("100000")))
	assert.True(t, ws.Summary.Closing.Equal(d("700000")))
	assert.True(t, ws.Summary.NetFlow.Equal(d("200000")))
	// Closing must match the last running balance.
	assert.True(t, ws.Summary.Closing.Equal(ws.Lines[1].Running))
}

func TestStatement_TransferBooksTwoLines(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-06-30")
	a := f.addWallet("IDR", "898000", "2026-01-01")
	b := f.addWallet("IDR", "100000", "2026-01-01")

	// One transfer of 100,000 with fee 2,000 from A to B this period.
	f.repo.since[a.ID] = d("-102000")
	f.repo.since[b.ID] = d("100000")
	f.repo.txs = []*ledger.Transaction{
		{ID: uuid.New(), UserID: f.userID, WalletID: a.ID, TargetWalletID: &b.ID,
			Type: ledger.TypeTransfer, Amount: d("100000"), Fee: d("2000"),
			Date: day("2026-06-10"), IsActive: true},
	}

	st, err := f.svc.Statement(context.Background(), f.userID, StatementInput{
		Start: day("2026-06-01"), End: day("2026-06-30"),
	})
	require.NoError(t, err)
	require.Len(t, st.Wallets, 2)

	src, dst := st.Wallets[0], st.Wallets[1]
	require.Len(t, src.Lines, 1)
	require.Len(t, dst.Lines, 1)

	assert.Equal(t, DirectionTransferOut, src.Lines[0].Direction)
	assert.True(t, src.Summary.Opening.Equal(d("1000000")))
	assert.True(t, src.Lines[0].Running.Equal(d("898000")))
	assert.True(t, src.Summary.Expense.Equal(d("102000")))

	assert.Equal(t, DirectionTransferIn, dst.Lines[0].Direction)
	assert.True(t, dst.Summary.Opening.IsZero())
	assert.True(t, dst.Lines[0].Running.Equal(d("100000")))
	assert.True(t, dst.Summary.Income.Equal(d("100000")))
}

func TestStatement_SingleWalletScopeBooksOneSide(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-06-30")
	a := f.addWallet("IDR", "898000", "2026-01-01")
	b := f.addWallet("IDR", "100000", "2026-01-01")

	f.repo.since[a.ID] = d("-102000")
	f.repo.txs = []*ledger.Transaction{
		{ID: uuid.New(), UserID: f.userID, WalletID: a.ID, TargetWalletID: &b.ID,
			Type: ledger.TypeTransfer, Amount: d("100000"), Fee: d("2000"),
			Date: day("2026-06-10"), IsActive: true},
	}

	st, err := f.svc.Statement(context.Background(), f.userID, StatementInput{
		WalletID: &a.ID, Start: day("2026-06-01"), End: day("2026-06-30"),
	})
	require.NoError(t, err)
	require.Len(t, st.Wallets, 1)
	require.Len(t, st.Wallets[0].Lines, 1)
	assert.Equal(t, DirectionTransferOut, st.Wallets[0].Lines[0].Direction)
}

func TestStatement_RejectsInvalidPeriod(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-06-30")

	_, err := f.svc.Statement(context.Background(), f.userID, StatementInput{
		Start: day("2026-06-30"), End: day("2026-06-01"),
	})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestStatement_UnknownWalletFilter(t *testing.T) {
	f := newReportFixture(t, user.PlanProfessional, "2026-06-30")
	f.addWallet("IDR", "100", "2026-01-01")

	other := uuid.New()
	_, err := f.svc.Statement(context.Background(), f.userID, StatementInput{
		WalletID: &other, Start: day("2026-06-01"), End: day("2026-06-30"),
	})
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}
