package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelpoint/fuelpoint-api/internal/pkg/password"
)

type fakeRepo struct {
	users map[uuid.UUID]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[uuid.UUID]*User{}}
}

func (f *fakeRepo) add(t *testing.T, email string, role Role) *User {
	t.Helper()
	hash, err := password.Hash("secret-pass")
	require.NoError(t, err)
	u := &User{ID: uuid.New(), Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	require.NoError(t, f.Create(context.Background(), u))
	return u
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email && existing.Role == u.Role {
			return ErrAlreadyExists
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByEmailAndRole(ctx context.Context, email string, role Role) (*User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Role == role {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context, role Role, email string) ([]*User, error) {
	var out []*User
	for _, u := range f.users {
		if role != "" && u.Role != role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	var out []*User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, u *User) error {
	if _, ok := f.users[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) EmailRoleTaken(ctx context.Context, email string, role Role, excludeID uuid.UUID) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.Role == role && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) CountByRole(ctx context.Context, role Role) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountExcludingRole(ctx context.Context, role Role) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role != role {
			n++
		}
	}
	return n, nil
}

type fakePoints struct {
	points map[uuid.UUID]int64
}

func (f *fakePoints) TotalCompletedPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.points[userID], nil
}

type fakeDirectory struct {
	links map[uuid.UUID][]uuid.UUID // employer -> customers
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{links: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeDirectory) ActiveUserIDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error) {
	return f.links[employerID], nil
}

func (f *fakeDirectory) LinkUserToEmployer(ctx context.Context, userID, employerID, assignedBy uuid.UUID) error {
	for _, id := range f.links[employerID] {
		if id == userID {
			return &pq.Error{Code: "23505"}
		}
	}
	f.links[employerID] = append(f.links[employerID], userID)
	return nil
}

func (f *fakeDirectory) DeactivateUserAssignment(ctx context.Context, userID, employerID uuid.UUID) error {
	ids := f.links[employerID]
	for i, id := range ids {
		if id == userID {
			f.links[employerID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestGetMissingUser(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePoints{})

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAttachesPointsToCustomers(t *testing.T) {
	repo := newFakeRepo()
	customer := repo.add(t, "driver@example.com", RoleUser)
	repo.add(t, "station@example.com", RoleEmployer)
	points := &fakePoints{points: map[uuid.UUID]int64{customer.ID: 1250}}
	svc := NewService(repo, points)

	out, err := svc.List(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, out, 2)

	byEmail := map[string]*UserWithPointsResponse{}
	for _, u := range out {
		byEmail[u.Email] = u
	}
	assert.Equal(t, int64(1250), byEmail["driver@example.com"].RewardPoints)
	assert.Zero(t, byEmail["station@example.com"].RewardPoints)
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.add(t, "first@example.com", RoleUser)
	second := repo.add(t, "second@example.com", RoleUser)
	svc := NewService(repo, &fakePoints{})

	email := "First@Example.com"
	_, err := svc.Update(context.Background(), second.ID, &UpdateUserRequest{Email: &email})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateRejectsUnknownRole(t *testing.T) {
	repo := newFakeRepo()
	u := repo.add(t, "driver@example.com", RoleUser)
	svc := NewService(repo, &fakePoints{})

	role := "superuser"
	_, err := svc.Update(context.Background(), u.ID, &UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUpdateRehashesPassword(t *testing.T) {
	repo := newFakeRepo()
	u := repo.add(t, "driver@example.com", RoleUser)
	svc := NewService(repo, &fakePoints{})

	newPass := "fresh-password"
	updated, err := svc.Update(context.Background(), u.ID, &UpdateUserRequest{Password: &newPass})
	require.NoError(t, err)
	assert.True(t, password.Verify(newPass, updated.PasswordHash))
	assert.False(t, password.Verify("secret-pass", updated.PasswordHash))
}

func TestDeleteMissingUser(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePoints{})

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func newEmployerFixture() (*fakeRepo, *fakeDirectory, *fakePoints, *EmployerService) {
	repo := newFakeRepo()
	dir := newFakeDirectory()
	points := &fakePoints{points: map[uuid.UUID]int64{}}
	return repo, dir, points, NewEmployerService(repo, dir, points)
}

func TestCreateCustomerRegistersAndLinks(t *testing.T) {
	repo, dir, _, svc := newEmployerFixture()
	employerID := uuid.New()

	u, err := svc.CreateCustomer(context.Background(), employerID, &CreateCustomerRequest{
		Email:    "New.Driver@Example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.driver@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.Contains(t, repo.users, u.ID)
	assert.Equal(t, []uuid.UUID{u.ID}, dir.links[employerID])
}

func TestCreateCustomerLinksExistingAccount(t *testing.T) {
	repo, dir, _, svc := newEmployerFixture()
	employerID := uuid.New()
	existing := repo.add(t, "driver@example.com", RoleUser)

	u, err := svc.CreateCustomer(context.Background(), employerID, &CreateCustomerRequest{
		Email:    "driver@example.com",
		Password: "ignored-here",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, u.ID)
	assert.Len(t, repo.users, 1)
	assert.Equal(t, []uuid.UUID{existing.ID}, dir.links[employerID])
}

func TestCreateCustomerAlreadyLinked(t *testing.T) {
	_, _, _, svc := newEmployerFixture()
	employerID := uuid.New()
	req := &CreateCustomerRequest{Email: "driver@example.com", Password: "secret-pass"}

	_, err := svc.CreateCustomer(context.Background(), employerID, req)
	require.NoError(t, err)

	_, err = svc.CreateCustomer(context.Background(), employerID, req)
	assert.ErrorIs(t, err, ErrAlreadyLinked)
}

func TestUpdateCustomerRequiresLink(t *testing.T) {
	repo, _, _, svc := newEmployerFixture()
	stranger := repo.add(t, "driver@example.com", RoleUser)

	email := "other@example.com"
	_, err := svc.UpdateCustomer(context.Background(), uuid.New(), stranger.ID, &UpdateCustomerRequest{Email: &email})
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestRemoveCustomerKeepsAccount(t *testing.T) {
	repo, dir, _, svc := newEmployerFixture()
	employerID := uuid.New()
	u := repo.add(t, "driver@example.com", RoleUser)
	require.NoError(t, dir.LinkUserToEmployer(context.Background(), u.ID, employerID, employerID))

	require.NoError(t, svc.RemoveCustomer(context.Background(), employerID, u.ID))
	assert.Empty(t, dir.links[employerID])
	assert.Contains(t, repo.users, u.ID)

	err := svc.RemoveCustomer(context.Background(), employerID, u.ID)
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestListCustomersWithPoints(t *testing.T) {
	repo, dir, points, svc := newEmployerFixture()
	employerID := uuid.New()
	u := repo.add(t, "driver@example.com", RoleUser)
	require.NoError(t, dir.LinkUserToEmployer(context.Background(), u.ID, employerID, employerID))
	points.points[u.ID] = 340

	out, err := svc.ListCustomers(context.Background(), employerID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(340), out[0].RewardPoints)
	assert.Equal(t, int64(340), out[0].Points)
}
