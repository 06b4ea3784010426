package redemption

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
)

type fakeGiftRepo struct {
	gifts map[uuid.UUID]*gift.Gift
}

func newFakeGiftRepo(gifts ...*gift.Gift) *fakeGiftRepo {
	f := &fakeGiftRepo{gifts: map[uuid.UUID]*gift.Gift{}}
	for _, g := range gifts {
		f.gifts[g.ID] = g
	}
	return f
}

func (f *fakeGiftRepo) Create(ctx context.Context, g *gift.Gift) error {
	f.gifts[g.ID] = g
	return nil
}

func (f *fakeGiftRepo) GetByID(ctx context.Context, id uuid.UUID) (*gift.Gift, error) {
	g, ok := f.gifts[id]
	if !ok {
		return nil, gift.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGiftRepo) List(ctx context.Context, activeOnly bool) ([]gift.Gift, error) {
	return nil, nil
}

func (f *fakeGiftRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]gift.Gift, error) {
	return nil, nil
}

func (f *fakeGiftRepo) Update(ctx context.Context, g *gift.Gift) error { return nil }
func (f *fakeGiftRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeGiftRepo) Count(ctx context.Context) (int, error)         { return len(f.gifts), nil }

func (f *fakeGiftRepo) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*gift.Gift, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeGiftRepo) DecrementStock(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, qty int) error {
	g, ok := f.gifts[id]
	if !ok || g.Stock < qty {
		return gift.ErrInsufficientStock
	}
	g.Stock -= qty
	return nil
}

type fakeTierRepo struct {
	tiers map[uuid.UUID]*tier.CustomerTier
}

func newFakeTierRepo() *fakeTierRepo {
	return &fakeTierRepo{tiers: map[uuid.UUID]*tier.CustomerTier{}}
}

func (f *fakeTierRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*tier.CustomerTier, error) {
	t, ok := f.tiers[userID]
	if !ok {
		return nil, tier.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTierRepo) ListAll(ctx context.Context) ([]tier.CustomerTier, error) { return nil, nil }

func (f *fakeTierRepo) Apply(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta int64, at time.Time) (*tier.CustomerTier, error) {
	t, ok := f.tiers[userID]
	if !ok {
		t = &tier.CustomerTier{UserID: userID, Tier: "Bronze"}
		f.tiers[userID] = t
	}
	t.Points += delta
	t.Transactions++
	return t, nil
}

func (f *fakeTierRepo) Debit(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, points int64) error {
	t, ok := f.tiers[userID]
	if !ok {
		return tier.ErrNotFound
	}
	t.Points -= points
	if t.Points < 0 {
		t.Points = 0
	}
	return nil
}

func (f *fakeTierRepo) Backfill(ctx context.Context) (int, error) { return 0, nil }

type fakeRepo struct {
	items map[uuid.UUID]*Redemption
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]*Redemption{}}
}

func outstanding(status string) bool {
	return status == StatusPending || status == StatusApproved
}

func (f *fakeRepo) Create(ctx context.Context, rd *Redemption) error {
	for _, existing := range f.items {
		if existing.UserID != nil && rd.UserID != nil &&
			*existing.UserID == *rd.UserID && existing.GiftID == rd.GiftID &&
			outstanding(existing.Status) {
			return ErrDuplicateOutstanding
		}
	}
	cp := *rd
	f.items[rd.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Redemption, error) {
	rd, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rd
	return &cp, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]Redemption, error) {
	out := make([]Redemption, 0, len(f.items))
	for _, rd := range f.items {
		out = append(out, *rd)
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Redemption, error) {
	var out []Redemption
	for _, rd := range f.items {
		if rd.UserID != nil && *rd.UserID == userID {
			out = append(out, *rd)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]Redemption, error) {
	var out []Redemption
	for _, id := range userIDs {
		rds, _ := f.ListByUser(ctx, id)
		out = append(out, rds...)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Redemption, error) {
	rd, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	rd.Status = status
	cp := *rd
	return &cp, nil
}

func (f *fakeRepo) Approve(ctx context.Context, id uuid.UUID, gifts GiftStore, tiers TierDebitor) (*Redemption, error) {
	rd, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !CanTransition(rd.Status, StatusApproved) {
		return nil, ErrInvalidTransition
	}
	g, err := gifts.GetForUpdate(ctx, nil, rd.GiftID)
	if err != nil {
		return nil, err
	}
	if g.Stock < rd.Quantity {
		return nil, ErrInsufficientStock
	}
	if err := gifts.DecrementStock(ctx, nil, rd.GiftID, rd.Quantity); err != nil {
		return nil, err
	}
	if rd.UserID != nil {
		if err := tiers.Debit(ctx, nil, *rd.UserID, rd.PointsUsed); err != nil && !errors.Is(err, tier.ErrNotFound) {
			return nil, err
		}
	}
	rd.Status = StatusApproved
	cp := *rd
	return &cp, nil
}

type fakeNotifier struct {
	titles []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message, typ, category string, metadata map[string]interface{}) {
	f.titles = append(f.titles, title)
}

func newScenario(t *testing.T, stock int, pointsRequired, userPoints int64) (*Service, *fakeGiftRepo, *fakeTierRepo, *fakeNotifier, uuid.UUID, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	g := &gift.Gift{
		ID:             uuid.New(),
		Name:           "Car wash",
		PointsRequired: pointsRequired,
		Stock:          stock,
		Active:         true,
	}
	gifts := newFakeGiftRepo(g)
	tiers := newFakeTierRepo()
	tiers.tiers[userID] = &tier.CustomerTier{UserID: userID, Tier: "Bronze", Points: userPoints}
	notifier := &fakeNotifier{}
	svc := NewService(newFakeRepo(), gifts, tiers, nil, notifier)
	return svc, gifts, tiers, notifier, userID, g.ID
}

func TestRedemptionLifecycle(t *testing.T) {
	svc, gifts, tiers, notifier, userID, giftID := newScenario(t, 1, 500, 600)
	ctx := context.Background()

	rd, err := svc.Create(ctx, userID, &CreateRedemptionRequest{GiftID: giftID})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rd.Status)
	assert.Equal(t, int64(500), rd.PointsUsed)

	// Creation reserves nothing.
	g, _ := gifts.GetByID(ctx, giftID)
	assert.Equal(t, 1, g.Stock)
	ct, _ := tiers.GetByUser(ctx, userID)
	assert.Equal(t, int64(600), ct.Points)

	// A second outstanding redemption for the same gift is rejected.
	_, err = svc.Create(ctx, userID, &CreateRedemptionRequest{GiftID: giftID})
	assert.ErrorIs(t, err, ErrDuplicateOutstanding)

	// Approval debits stock and points atomically.
	rd, err = svc.UpdateStatus(ctx, rd.ID, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rd.Status)

	g, _ = gifts.GetByID(ctx, giftID)
	assert.Equal(t, 0, g.Stock)
	ct, _ = tiers.GetByUser(ctx, userID)
	assert.Equal(t, int64(100), ct.Points)

	// Rejecting after approval is not a legal transition, and nothing is
	// restored by the attempt.
	_, err = svc.UpdateStatus(ctx, rd.ID, StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	g, _ = gifts.GetByID(ctx, giftID)
	assert.Equal(t, 0, g.Stock)

	rd, err = svc.UpdateStatus(ctx, rd.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, rd.Status)

	assert.Contains(t, notifier.titles, "Redemption approved")
	assert.Contains(t, notifier.titles, "Redemption completed")
}

func TestRedemptionRejectReservesNothing(t *testing.T) {
	svc, gifts, tiers, _, userID, giftID := newScenario(t, 2, 500, 600)
	ctx := context.Background()

	rd, err := svc.Create(ctx, userID, &CreateRedemptionRequest{GiftID: giftID})
	require.NoError(t, err)

	rd, err = svc.UpdateStatus(ctx, rd.ID, StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rd.Status)

	g, _ := gifts.GetByID(ctx, giftID)
	assert.Equal(t, 2, g.Stock)
	ct, _ := tiers.GetByUser(ctx, userID)
	assert.Equal(t, int64(600), ct.Points)
}

func TestCreateInsufficientPoints(t *testing.T) {
	svc, _, _, _, userID, giftID := newScenario(t, 5, 500, 499)

	_, err := svc.Create(context.Background(), userID, &CreateRedemptionRequest{GiftID: giftID})
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestCreateInsufficientStock(t *testing.T) {
	svc, _, _, _, userID, giftID := newScenario(t, 0, 500, 1000)

	_, err := svc.Create(context.Background(), userID, &CreateRedemptionRequest{GiftID: giftID})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCreateQuantityMultipliesPoints(t *testing.T) {
	svc, _, _, _, userID, giftID := newScenario(t, 5, 300, 1000)

	rd, err := svc.Create(context.Background(), userID, &CreateRedemptionRequest{GiftID: giftID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(900), rd.PointsUsed)
	assert.Equal(t, 3, rd.Quantity)
}

func TestApproveRaceLosesOnStock(t *testing.T) {
	// Two pending redemptions, one unit of stock. The second approval
	// must fail at the authoritative check.
	userA, userB := uuid.New(), uuid.New()
	g := &gift.Gift{ID: uuid.New(), Name: "Mug", PointsRequired: 100, Stock: 1, Active: true}
	gifts := newFakeGiftRepo(g)
	tiers := newFakeTierRepo()
	tiers.tiers[userA] = &tier.CustomerTier{UserID: userA, Points: 500}
	tiers.tiers[userB] = &tier.CustomerTier{UserID: userB, Points: 500}
	svc := NewService(newFakeRepo(), gifts, tiers, nil, &fakeNotifier{})
	ctx := context.Background()

	rdA, err := svc.Create(ctx, userA, &CreateRedemptionRequest{GiftID: g.ID})
	require.NoError(t, err)
	rdB, err := svc.Create(ctx, userB, &CreateRedemptionRequest{GiftID: g.ID})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, rdA.ID, StatusApproved)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, rdB.ID, StatusApproved)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestEnsurePendingSwallowsDuplicate(t *testing.T) {
	svc, _, _, _, userID, giftID := newScenario(t, 5, 500, 1000)
	ctx := context.Background()

	require.NoError(t, svc.EnsurePending(ctx, userID, giftID, 500))
	require.NoError(t, svc.EnsurePending(ctx, userID, giftID, 500))

	rds, err := svc.ListMine(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, rds, 1)
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusApproved, false},
		{StatusCompleted, StatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
