package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/pump"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/settings"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
)

type fakeRepo struct {
	created  []*Transaction
	applied  []int64
	invoices map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{invoices: map[string]bool{}}
}

func (f *fakeRepo) Create(ctx context.Context, t *Transaction, tiers TierApplier) error {
	if t.InvoiceNumber != nil {
		if f.invoices[*t.InvoiceNumber] {
			return ErrDuplicateInvoice
		}
		f.invoices[*t.InvoiceNumber] = true
	}
	f.created = append(f.created, t)
	if t.UserID != nil && t.Status == StatusCompleted && t.RewardPoints != nil {
		if _, err := tiers.Apply(ctx, nil, *t.UserID, *t.RewardPoints, t.CreatedAt); err != nil {
			return err
		}
		f.applied = append(f.applied, *t.RewardPoints)
	}
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	for _, t := range f.created {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetByInvoice(ctx context.Context, invoiceNumber string) (*Transaction, error) {
	return nil, ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Transaction, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Recent(ctx context.Context, limit int) ([]Transaction, error) { return nil, nil }

func (f *fakeRepo) NextInvoiceNumber(ctx context.Context) (string, error) { return "INV-000001", nil }

func (f *fakeRepo) RewardPointsByEmployer(ctx context.Context, employerID uuid.UUID) ([]RewardPointRow, error) {
	return nil, nil
}

func (f *fakeRepo) TotalCompletedPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	for _, t := range f.created {
		if t.UserID != nil && *t.UserID == userID && t.Status == StatusCompleted && t.RewardPoints != nil {
			total += *t.RewardPoints
		}
	}
	return total, nil
}

func (f *fakeRepo) Stats(ctx context.Context) (*Stats, error) { return &Stats{}, nil }

type fakeTiers struct {
	points map[uuid.UUID]int64
}

func (f *fakeTiers) GetByUser(ctx context.Context, userID uuid.UUID) (*tier.CustomerTier, error) {
	return nil, tier.ErrNotFound
}

func (f *fakeTiers) ListAll(ctx context.Context) ([]tier.CustomerTier, error) { return nil, nil }

func (f *fakeTiers) Apply(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta int64, at time.Time) (*tier.CustomerTier, error) {
	if f.points == nil {
		f.points = map[uuid.UUID]int64{}
	}
	f.points[userID] += delta
	return &tier.CustomerTier{UserID: userID, Points: f.points[userID]}, nil
}

func (f *fakeTiers) Debit(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, points int64) error {
	return nil
}

func (f *fakeTiers) Backfill(ctx context.Context) (int, error) { return 0, nil }

type fakeUsers struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUsers) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUsers) GetByEmailAndRole(ctx context.Context, email string, role user.Role) (*user.User, error) {
	return nil, nil
}
func (f *fakeUsers) List(ctx context.Context, role user.Role, email string) ([]*user.User, error) {
	return nil, nil
}
func (f *fakeUsers) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	return nil, nil
}
func (f *fakeUsers) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUsers) EmailRoleTaken(ctx context.Context, email string, role user.Role, excludeID uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeUsers) DeleteCascade(ctx context.Context, id uuid.UUID) error        { return nil }
func (f *fakeUsers) CountByRole(ctx context.Context, role user.Role) (int, error) { return 0, nil }
func (f *fakeUsers) CountExcludingRole(ctx context.Context, role user.Role) (int, error) {
	return 0, nil
}

type fakePumps struct {
	pumps map[uuid.UUID]*pump.Pump
}

func (f *fakePumps) Create(ctx context.Context, p *pump.Pump) error { return nil }
func (f *fakePumps) GetByID(ctx context.Context, id uuid.UUID) (*pump.Pump, error) {
	p, ok := f.pumps[id]
	if !ok {
		return nil, pump.ErrNotFound
	}
	return p, nil
}
func (f *fakePumps) List(ctx context.Context) ([]pump.Pump, error) { return nil, nil }
func (f *fakePumps) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]pump.Pump, error) {
	return nil, nil
}
func (f *fakePumps) Update(ctx context.Context, p *pump.Pump) error { return nil }
func (f *fakePumps) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakePumps) Stats(ctx context.Context) (*pump.Stats, error) { return &pump.Stats{}, nil }
func (f *fakePumps) CreateMeterReading(ctx context.Context, m *pump.MeterReading) error { return nil }
func (f *fakePumps) ListMeterReadings(ctx context.Context, pumpID uuid.UUID, limit int) ([]pump.MeterReading, error) {
	return nil, nil
}
func (f *fakePumps) CreateMaintenanceReport(ctx context.Context, m *pump.MaintenanceReport) error {
	return nil
}
func (f *fakePumps) ListMaintenanceReports(ctx context.Context, pumpID uuid.UUID) ([]pump.MaintenanceReport, error) {
	return nil, nil
}

type fakeSettings struct {
	cfg settings.StationSettings
}

func (f *fakeSettings) Get(ctx context.Context) (*settings.StationSettings, error) {
	cp := f.cfg
	return &cp, nil
}

func (f *fakeSettings) Save(ctx context.Context, s *settings.StationSettings) (*settings.StationSettings, error) {
	f.cfg = *s
	return s, nil
}

type fakeNotifier struct {
	notified []uuid.UUID
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message, typ, category string, metadata map[string]interface{}) {
	f.notified = append(f.notified, userID)
}

func newTestService(pointsPerLiter, multiplier float64) (*Service, *fakeRepo, *fakeTiers, *fakeUsers, *fakeNotifier) {
	repo := newFakeRepo()
	tiers := &fakeTiers{}
	users := &fakeUsers{users: map[uuid.UUID]*user.User{}}
	pumps := &fakePumps{pumps: map[uuid.UUID]*pump.Pump{}}
	notifier := &fakeNotifier{}
	cfg := &fakeSettings{cfg: settings.StationSettings{
		PointsPerLiter:   pointsPerLiter,
		RewardMultiplier: multiplier,
	}}
	return NewService(repo, tiers, users, pumps, cfg, notifier), repo, tiers, users, notifier
}

func addCustomer(users *fakeUsers) uuid.UUID {
	id := uuid.New()
	users.users[id] = &user.User{ID: id, Email: "driver@example.com", Role: user.RoleUser}
	return id
}

func TestCreateComputesVolumePoints(t *testing.T) {
	svc, _, tiers, users, notifier := newTestService(2, 1.5)
	userID := addCustomer(users)
	liters := 12.5

	tx, err := svc.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		Description: "Fuel sale",
		Amount:      8100,
		Liters:      &liters,
		UserID:      &userID,
	})
	require.NoError(t, err)

	// floor(12.5 * 2 * 1.5) = 37
	require.NotNil(t, tx.RewardPoints)
	assert.Equal(t, int64(37), *tx.RewardPoints)
	assert.Equal(t, int64(37), tiers.points[userID])
	assert.Equal(t, []uuid.UUID{userID}, notifier.notified)
}

func TestCreateFallsBackToAmountPoints(t *testing.T) {
	svc, _, _, users, _ := newTestService(2, 1.5)
	userID := addCustomer(users)

	tx, err := svc.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		Description: "Shop purchase",
		Amount:      2590,
		UserID:      &userID,
	})
	require.NoError(t, err)

	// floor(2590 / 100) = 25
	require.NotNil(t, tx.RewardPoints)
	assert.Equal(t, int64(25), *tx.RewardPoints)
}

func TestCreateDefaults(t *testing.T) {
	svc, _, _, _, notifier := newTestService(1, 1)

	tx, err := svc.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		Description: "Walk-in sale",
		Amount:      500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cash", tx.Payment)
	assert.Equal(t, StatusCompleted, tx.Status)
	assert.Equal(t, TypeFuel, tx.Type)
	assert.Nil(t, tx.UserID)
	assert.Empty(t, notifier.notified)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, _, _ := newTestService(1, 1)

	_, err := svc.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		Description: "Bad sale",
		Amount:      0,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateUnknownCustomer(t *testing.T) {
	svc, _, _, _, _ := newTestService(1, 1)
	unknown := uuid.New()

	_, err := svc.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		Description: "Fuel sale",
		Amount:      100,
		UserID:      &unknown,
	})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestCreateDuplicateInvoice(t *testing.T) {
	svc, _, _, _, _ := newTestService(1, 1)
	invoice := "INV-000042"

	_, err := svc.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		Description:   "First",
		Amount:        100,
		InvoiceNumber: &invoice,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		Description:   "Second",
		Amount:        100,
		InvoiceNumber: &invoice,
	})
	assert.ErrorIs(t, err, ErrDuplicateInvoice)
}

func TestPendingTransactionSkipsTierAndNotification(t *testing.T) {
	svc, repo, tiers, users, notifier := newTestService(1, 1)
	userID := addCustomer(users)

	_, err := svc.Create(context.Background(), uuid.New(), &CreateTransactionRequest{
		Description: "Deferred sale",
		Amount:      1000,
		Status:      StatusPending,
		UserID:      &userID,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.applied)
	assert.Zero(t, tiers.points[userID])
	assert.Empty(t, notifier.notified)
}

func TestTotalCompletedPointsByUser(t *testing.T) {
	svc, _, _, users, _ := newTestService(1, 1)
	userID := addCustomer(users)
	ctx := context.Background()

	for _, amount := range []float64{1000, 2500} {
		_, err := svc.Create(ctx, uuid.New(), &CreateTransactionRequest{
			Description: "Fuel sale",
			Amount:      amount,
			UserID:      &userID,
		})
		require.NoError(t, err)
	}

	total, err := svc.TotalCompletedPointsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(35), total)
}
