package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/pump"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/transaction"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
)

// Stats fakes count their calls so the cache tests can tell a cache hit from
// a recomputation.

type fakeTxRepo struct {
	statsCalls  int
	pointsTotal int64
}

func (f *fakeTxRepo) Create(ctx context.Context, t *transaction.Transaction, tiers transaction.TierApplier) error {
	return nil
}
func (f *fakeTxRepo) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return nil, transaction.ErrNotFound
}
func (f *fakeTxRepo) GetByInvoice(ctx context.Context, invoiceNumber string) (*transaction.Transaction, error) {
	return nil, transaction.ErrNotFound
}
func (f *fakeTxRepo) List(ctx context.Context, filter transaction.ListFilter) ([]transaction.Transaction, int, error) {
	return nil, 0, nil
}
func (f *fakeTxRepo) Recent(ctx context.Context, limit int) ([]transaction.Transaction, error) {
	return nil, nil
}
func (f *fakeTxRepo) NextInvoiceNumber(ctx context.Context) (string, error) { return "INV-1", nil }
func (f *fakeTxRepo) RewardPointsByEmployer(ctx context.Context, employerID uuid.UUID) ([]transaction.RewardPointRow, error) {
	return nil, nil
}
func (f *fakeTxRepo) TotalCompletedPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.pointsTotal, nil
}
func (f *fakeTxRepo) Stats(ctx context.Context) (*transaction.Stats, error) {
	f.statsCalls++
	return &transaction.Stats{TotalRevenue: 125000, TotalCount: 42, CompletedCount: 40}, nil
}

type fakePumpRepo struct {
	statsCalls int
}

func (f *fakePumpRepo) Create(ctx context.Context, p *pump.Pump) error { return nil }
func (f *fakePumpRepo) GetByID(ctx context.Context, id uuid.UUID) (*pump.Pump, error) {
	return nil, pump.ErrNotFound
}
func (f *fakePumpRepo) List(ctx context.Context) ([]pump.Pump, error) { return nil, nil }
func (f *fakePumpRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]pump.Pump, error) {
	return nil, nil
}
func (f *fakePumpRepo) Update(ctx context.Context, p *pump.Pump) error { return nil }
func (f *fakePumpRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakePumpRepo) Stats(ctx context.Context) (*pump.Stats, error) {
	f.statsCalls++
	return &pump.Stats{Total: 6, Active: 5, Maintenance: 1}, nil
}
func (f *fakePumpRepo) CreateMeterReading(ctx context.Context, m *pump.MeterReading) error {
	return nil
}
func (f *fakePumpRepo) ListMeterReadings(ctx context.Context, pumpID uuid.UUID, limit int) ([]pump.MeterReading, error) {
	return nil, nil
}
func (f *fakePumpRepo) CreateMaintenanceReport(ctx context.Context, m *pump.MaintenanceReport) error {
	return nil
}
func (f *fakePumpRepo) ListMaintenanceReports(ctx context.Context, pumpID uuid.UUID) ([]pump.MaintenanceReport, error) {
	return nil, nil
}

type fakeUserRepo struct {
	customers int
	staff     int
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmailAndRole(ctx context.Context, email string, role user.Role) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) List(ctx context.Context, role user.Role, email string) ([]*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) EmailRoleTaken(ctx context.Context, email string, role user.Role, excludeID uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeUserRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeUserRepo) CountByRole(ctx context.Context, role user.Role) (int, error) {
	return f.customers, nil
}
func (f *fakeUserRepo) CountExcludingRole(ctx context.Context, role user.Role) (int, error) {
	return f.staff, nil
}

type fakeGiftRepo struct {
	count int
}

func (f *fakeGiftRepo) Create(ctx context.Context, g *gift.Gift) error { return nil }
func (f *fakeGiftRepo) GetByID(ctx context.Context, id uuid.UUID) (*gift.Gift, error) {
	return nil, gift.ErrNotFound
}
func (f *fakeGiftRepo) List(ctx context.Context, activeOnly bool) ([]gift.Gift, error) {
	return nil, nil
}
func (f *fakeGiftRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]gift.Gift, error) {
	return nil, nil
}
func (f *fakeGiftRepo) Update(ctx context.Context, g *gift.Gift) error { return nil }
func (f *fakeGiftRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeGiftRepo) Count(ctx context.Context) (int, error)         { return f.count, nil }
func (f *fakeGiftRepo) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*gift.Gift, error) {
	return nil, gift.ErrNotFound
}
func (f *fakeGiftRepo) DecrementStock(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, qty int) error {
	return nil
}

type fakeTierRepo struct {
	tiers map[uuid.UUID]*tier.CustomerTier
}

func (f *fakeTierRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*tier.CustomerTier, error) {
	t, ok := f.tiers[userID]
	if !ok {
		return nil, tier.ErrNotFound
	}
	return t, nil
}
func (f *fakeTierRepo) ListAll(ctx context.Context) ([]tier.CustomerTier, error) { return nil, nil }
func (f *fakeTierRepo) Apply(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta int64, at time.Time) (*tier.CustomerTier, error) {
	return nil, nil
}
func (f *fakeTierRepo) Debit(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, points int64) error {
	return nil
}
func (f *fakeTierRepo) Backfill(ctx context.Context) (int, error) { return 0, nil }

type fakeDashRepo struct{}

func (f *fakeDashRepo) SupervisorStats(ctx context.Context, supervisorID uuid.UUID) (*SupervisorStats, error) {
	return &SupervisorStats{Pumps: 2, ActiveEmployers: 1}, nil
}

func newStatsService(t *testing.T, withCache bool) (*Service, *fakeTxRepo, *fakePumpRepo) {
	t.Helper()
	txRepo := &fakeTxRepo{}
	pumpRepo := &fakePumpRepo{}
	users := &fakeUserRepo{customers: 120, staff: 7}
	gifts := &fakeGiftRepo{count: 9}
	tiers := &fakeTierRepo{tiers: map[uuid.UUID]*tier.CustomerTier{}}

	var client *redis.Client
	if withCache {
		mr := miniredis.RunT(t)
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}

	svc := NewService(&fakeDashRepo{}, txRepo, pumpRepo, users, gifts, tiers, nil, client, time.Minute)
	return svc, txRepo, pumpRepo
}

func TestAdminStatsServedFromCache(t *testing.T) {
	svc, txRepo, pumpRepo := newStatsService(t, true)
	ctx := context.Background()

	first, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, first.Transactions.TotalCount)
	assert.Equal(t, 6, first.Pumps.Total)
	assert.Equal(t, 120, first.Customers)
	assert.Equal(t, 7, first.Staff)
	assert.Equal(t, 9, first.Gifts)

	second, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Transactions.TotalCount, second.Transactions.TotalCount)

	// The second call never reached the repositories.
	assert.Equal(t, 1, txRepo.statsCalls)
	assert.Equal(t, 1, pumpRepo.statsCalls)
}

func TestAdminStatsWithoutRedisRecomputes(t *testing.T) {
	svc, txRepo, _ := newStatsService(t, false)
	ctx := context.Background()

	_, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	_, err = svc.AdminStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, txRepo.statsCalls)
}

func TestMyRewardPointsDefaultsToBronze(t *testing.T) {
	svc, txRepo, _ := newStatsService(t, false)
	txRepo.pointsTotal = 480

	details, err := svc.MyRewardPoints(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(480), details.TotalPoints)
	assert.Equal(t, "Bronze", details.Tier)
}

func TestMyRewardPointsUsesTierRow(t *testing.T) {
	txRepo := &fakeTxRepo{pointsTotal: 5200}
	userID := uuid.New()
	tiers := &fakeTierRepo{tiers: map[uuid.UUID]*tier.CustomerTier{
		userID: {UserID: userID, Points: 5200, Tier: "Gold"},
	}}
	svc := NewService(&fakeDashRepo{}, txRepo, &fakePumpRepo{}, &fakeUserRepo{}, &fakeGiftRepo{}, tiers, nil, nil, time.Minute)

	details, err := svc.MyRewardPoints(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5200), details.TotalPoints)
	assert.Equal(t, "Gold", details.Tier)
}

func TestSupervisorStatsPassthrough(t *testing.T) {
	svc, _, _ := newStatsService(t, false)

	stats, err := svc.SupervisorStats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pumps)
}
