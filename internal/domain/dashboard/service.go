package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/assignment"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/pump"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/transaction"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
)

const adminStatsKey = "dashboard:stats:admin"

// AdminStats is the station-wide dashboard payload
type AdminStats struct {
	Transactions *transaction.Stats `json:"transactions"`
	Pumps        *pump.Stats        `json:"pumps"`
	Customers    int                `json:"customers"`
	Staff        int                `json:"staff"`
	Gifts        int                `json:"gifts"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// RewardDetails is a customer's points summary
type RewardDetails struct {
	TotalPoints int64                        `json:"total_points"`
	Tier        string                       `json:"tier"`
	History     []transaction.RewardPointRow `json:"history,omitempty"`
}

// Service aggregates cross-domain reads for dashboards. Admin stats are
// cached in Redis for a short window; everything else reads live.
type Service struct {
	repo         Repository
	transactions transaction.Repository
	pumps        pump.Repository
	users        user.Repository
	gifts        gift.Repository
	tiers        tier.Repository
	scope        *assignment.Resolver
	redis        *redis.Client // nil disables the cache
	cacheTTL     time.Duration
}

// NewService creates dashboard service
func NewService(repo Repository, transactions transaction.Repository, pumps pump.Repository, users user.Repository, gifts gift.Repository, tiers tier.Repository, scope *assignment.Resolver, redisClient *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &Service{
		repo:         repo,
		transactions: transactions,
		pumps:        pumps,
		users:        users,
		gifts:        gifts,
		tiers:        tiers,
		scope:        scope,
		redis:        redisClient,
		cacheTTL:     cacheTTL,
	}
}

// AdminStats returns station-wide numbers, served from cache when fresh.
// Staleness up to the cache TTL is acceptable for a dashboard.
func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, adminStatsKey).Bytes(); err == nil {
			var cached AdminStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	txStats, err := s.transactions.Stats(ctx)
	if err != nil {
		return nil, err
	}
	pumpStats, err := s.pumps.Stats(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.users.CountByRole(ctx, user.RoleUser)
	if err != nil {
		return nil, err
	}
	staff, err := s.users.CountExcludingRole(ctx, user.RoleUser)
	if err != nil {
		return nil, err
	}
	giftCount, err := s.gifts.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &AdminStats{
		Transactions: txStats,
		Pumps:        pumpStats,
		Customers:    customers,
		Staff:        staff,
		Gifts:        giftCount,
		GeneratedAt:  time.Now(),
	}

	if s.redis != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, adminStatsKey, raw, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("Failed to cache dashboard stats")
			}
		}
	}
	return stats, nil
}

// SupervisorStats returns a supervisor's slice of the station
func (s *Service) SupervisorStats(ctx context.Context, supervisorID uuid.UUID) (*SupervisorStats, error) {
	return s.repo.SupervisorStats(ctx, supervisorID)
}

// MyTransactions lists the customer's own ledger rows
func (s *Service) MyTransactions(ctx context.Context, userID uuid.UUID, f transaction.ListFilter) ([]transaction.Transaction, int, error) {
	f.UserID = &userID
	return s.transactions.List(ctx, f)
}

// MyRewardPoints returns the customer's points total and tier
func (s *Service) MyRewardPoints(ctx context.Context, userID uuid.UUID) (*RewardDetails, error) {
	total, err := s.transactions.TotalCompletedPointsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	label := "Bronze"
	t, err := s.tiers.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, tier.ErrNotFound) {
		return nil, err
	}
	if t != nil {
		label = t.Tier
	}
	return &RewardDetails{TotalPoints: total, Tier: label}, nil
}

// AvailableGifts lists the gifts reachable through the customer's scope:
// active rows with stock, offered by supervisors of the pumps the customer's
// employers operate.
func (s *Service) AvailableGifts(ctx context.Context, userID uuid.UUID) ([]gift.Gift, error) {
	scope, err := s.scope.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.gifts.ListByIDs(ctx, scope.GiftIDs)
	if err != nil {
		return nil, err
	}

	out := make([]gift.Gift, 0, len(all))
	for _, g := range all {
		if g.Active && g.Stock > 0 {
			out = append(out, g)
		}
	}
	return out, nil
}
