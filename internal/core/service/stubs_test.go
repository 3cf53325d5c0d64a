package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	putErr error
	puts   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Get(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put mirrors the unique email constraint of the real stores.
func (r *stubUserRepo) Put(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	for id, u := range r.byID {
		if u.Email == user.Email && id != user.ID {
			return domain.ErrEmailTaken
		}
	}
	r.byID[user.ID] = user.Clone()
	r.puts++
	return nil
}

func (r *stubUserRepo) Replace(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for id, u := range r.byID {
		if u.Email == user.Email && id != user.ID {
			return domain.ErrEmailTaken
		}
	}
	r.byID[user.ID] = user.Clone()
	r.puts++
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type stubRoleRepo struct {
	roles map[string]domain.Role
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[string]domain.Role)}
	for _, n := range names {
		r.roles[n] = domain.Role{Name: n}
	}
	return r
}

func (r *stubRoleRepo) ListRoles(_ context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubRoleRepo) GetRoleByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &role, nil
}

func (r *stubRoleRepo) PutRole(_ context.Context, role domain.Role) error {
	r.roles[role.Name] = role
	return nil
}

// fakeHasher is a transparent, fast stand-in for the real hasher. When
// hashEntered is set, Hash signals it and then waits on hashRelease.
type fakeHasher struct {
	hashErr     error
	hashes      atomic.Int32
	verifies    atomic.Int32
	hashEntered chan struct{}
	hashRelease chan struct{}
}

func (h *fakeHasher) Hash(plaintext string) (string, error) {
	if h.hashEntered != nil {
		h.hashEntered <- struct{}{}
		<-h.hashRelease
	}
	if h.hashErr != nil {
		return "", h.hashErr
	}
	h.hashes.Add(1)
	return "hashed:" + plaintext, nil
}

func (h *fakeHasher) Verify(plaintext, hash string) bool {
	h.verifies.Add(1)
	return strings.HasPrefix(hash, "hashed:") && hash == "hashed:"+plaintext
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newUserSvc(repo *stubUserRepo, roles *stubRoleRepo, hasher *fakeHasher) *UserService {
	return NewUserService(repo, NewRoleService(roles, zerolog.Nop()), hasher, zerolog.Nop())
}

var errBoom = errors.New("boom")
