package assignment

import (
	"context"

	"github.com/google/uuid"
)

// The multi-role visibility rules form a small directed graph:
//
//	user --active link--> employer --active assignment--> pump
//	     pump --supervisor_id--> supervisor --assigned--> gift
//
// A Resolver rebuilds the relevant slice of that graph per request and walks
// it hop by hop. The walk is bounded by the graph's depth, so a request can
// never loop; a missing edge at any hop just yields an empty frontier.

type nodeKind int

const (
	kindUser nodeKind = iota
	kindEmployer
	kindPump
	kindSupervisor
	kindGift
)

type node struct {
	kind nodeKind
	id   uuid.UUID
}

type graph struct {
	adj map[node][]node
}

func newGraph() *graph {
	return &graph{adj: make(map[node][]node)}
}

func (g *graph) addEdge(from, to node) {
	g.adj[from] = append(g.adj[from], to)
}

// frontier returns the distinct successors of the given nodes that have the
// wanted kind.
func (g *graph) frontier(from []node, want nodeKind) []node {
	seen := make(map[uuid.UUID]bool)
	var out []node
	for _, n := range from {
		for _, next := range g.adj[n] {
			if next.kind == want && !seen[next.id] {
				seen[next.id] = true
				out = append(out, next)
			}
		}
	}
	return out
}

func ids(nodes []node) []uuid.UUID {
	out := make([]uuid.UUID, len(nodes))
	for i, n := range nodes {
		out[i] = n.id
	}
	return out
}

// UserScope is everything visible to one customer.
type UserScope struct {
	EmployerIDs   []uuid.UUID
	PumpIDs       []uuid.UUID
	SupervisorIDs []uuid.UUID
	GiftIDs       []uuid.UUID
}

// Resolver answers scoping questions against the assignment graph.
type Resolver struct {
	repo Repository
}

// NewResolver creates a scope resolver
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveUser walks user → employers → pumps → supervisors → gifts. Every
// hop tolerates absence: a customer with no employer simply sees nothing.
func (r *Resolver) ResolveUser(ctx context.Context, userID uuid.UUID) (*UserScope, error) {
	g := newGraph()
	root := node{kindUser, userID}

	employerIDs, err := r.repo.ActiveEmployerIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range employerIDs {
		g.addEdge(root, node{kindEmployer, id})
	}
	employers := g.frontier([]node{root}, kindEmployer)

	pumpIDs, err := r.repo.ActivePumpIDsByEmployers(ctx, ids(employers))
	if err != nil {
		return nil, err
	}
	for _, e := range employers {
		for _, id := range pumpIDs {
			g.addEdge(e, node{kindPump, id})
		}
	}
	pumps := g.frontier(employers, kindPump)

	supervisorIDs, err := r.repo.SupervisorIDsForPumps(ctx, ids(pumps))
	if err != nil {
		return nil, err
	}
	for _, p := range pumps {
		for _, id := range supervisorIDs {
			g.addEdge(p, node{kindSupervisor, id})
		}
	}
	supervisors := g.frontier(pumps, kindSupervisor)

	giftIDs, err := r.repo.GiftIDsAssignedBy(ctx, ids(supervisors))
	if err != nil {
		return nil, err
	}
	for _, s := range supervisors {
		for _, id := range giftIDs {
			g.addEdge(s, node{kindGift, id})
		}
	}
	gifts := g.frontier(supervisors, kindGift)

	return &UserScope{
		EmployerIDs:   ids(employers),
		PumpIDs:       ids(pumps),
		SupervisorIDs: ids(supervisors),
		GiftIDs:       ids(gifts),
	}, nil
}

// SupervisorRedemptionUserIDs returns the customers whose redemptions a
// supervisor may see: those the supervisor assigned gifts to, plus those
// with transactions at employers operating the supervisor's pumps.
func (r *Resolver) SupervisorRedemptionUserIDs(ctx context.Context, supervisorID uuid.UUID) ([]uuid.UUID, error) {
	assigned, err := r.repo.UserIDsAssignedGiftsBy(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	transacted, err := r.repo.UserIDsWithTransactionsAtSupervisorEmployers(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(assigned)+len(transacted))
	out := make([]uuid.UUID, 0, len(assigned)+len(transacted))
	for _, id := range append(assigned, transacted...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
