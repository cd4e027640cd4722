package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Each one is safe for concurrent use and
// applies conditional writes under its lock, mirroring the Mongo adapters.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubAccountRepo struct {
	mu       sync.Mutex
	byID     map[string]*domain.Account
	findErr  error
	createFn func(a *domain.Account) error
}

func newStubAccountRepo(accounts ...*domain.Account) *stubAccountRepo {
	r := &stubAccountRepo{byID: make(map[string]*domain.Account)}
	for _, a := range accounts {
		clone := *a
		r.byID[a.ID] = &clone
	}
	return r
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFn != nil {
		if err := r.createFn(a); err != nil {
			return err
		}
	}
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return domain.ErrAccountExists
		}
	}
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.byID {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAccountRepo) List(_ context.Context, f ports.AccountFilter) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Account
	for _, a := range r.byID {
		if f.Role != "" && a.Role != f.Role {
			continue
		}
		if f.ActiveOnly && !a.Active {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id string, u domain.ProfileUpdate, at time.Time) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Apply(a)
	a.UpdatedAt = at
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Active = active
	a.UpdatedAt = at
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAccountRepo) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.Role]int64)
	for _, a := range r.byID {
		out[a.Role]++
	}
	return out, nil
}

// stubResourceRepo stores resources by id; clone copies a value so callers
// never share memory with the store.
type stubResourceRepo[T domain.Resource] struct {
	mu    sync.Mutex
	byID  map[string]T
	clone func(T) T
}

func newStubResourceRepo[T domain.Resource](clone func(T) T) *stubResourceRepo[T] {
	return &stubResourceRepo[T]{byID: make(map[string]T), clone: clone}
}

func newStubCattleRepo() *stubResourceRepo[*domain.Cattle] {
	return newStubResourceRepo(func(c *domain.Cattle) *domain.Cattle { clone := *c; return &clone })
}

func (r *stubResourceRepo[T]) Create(_ context.Context, res T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[res.Meta().ID] = r.clone(res)
	return nil
}

func (r *stubResourceRepo[T]) FindByID(_ context.Context, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return r.clone(res), nil
}

func (r *stubResourceRepo[T]) List(_ context.Context, f domain.ResourceFilter) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, res := range r.byID {
		if f.OwnerID != "" && res.Meta().OwnerID != f.OwnerID {
			continue
		}
		out = append(out, r.clone(res))
	}
	return out, nil
}

func (r *stubResourceRepo[T]) Replace(_ context.Context, res T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[res.Meta().ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[res.Meta().ID] = r.clone(res)
	return nil
}

func (r *stubResourceRepo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubResourceRepo[T]) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, res := range r.byID {
		if res.Meta().OwnerID == ownerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *stubResourceRepo[T]) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type stubAppointmentRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Appointment
	// beforeTransition, when set, runs inside TransitionStatus before the lock.
	beforeTransition func()
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: make(map[string]*domain.Appointment)}
}

func cloneAppointment(a *domain.Appointment) *domain.Appointment {
	clone := *a
	clone.History = append([]domain.StatusChange(nil), a.History...)
	return &clone
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = cloneAppointment(a)
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneAppointment(a), nil
}

func (r *stubAppointmentRepo) list(match func(*domain.Appointment) bool) []*domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range r.byID {
		if match(a) {
			out = append(out, cloneAppointment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubAppointmentRepo) ListByRequester(_ context.Context, id string) ([]*domain.Appointment, error) {
	return r.list(func(a *domain.Appointment) bool { return a.RequesterID == id }), nil
}

func (r *stubAppointmentRepo) ListByVeterinarian(_ context.Context, id string) ([]*domain.Appointment, error) {
	return r.list(func(a *domain.Appointment) bool { return a.VeterinarianID == id }), nil
}

func (r *stubAppointmentRepo) TransitionStatus(_ context.Context, id string, from, to domain.AppointmentStatus, at time.Time) (*domain.Appointment, error) {
	if r.beforeTransition != nil {
		r.beforeTransition()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.Status != from {
		return nil, domain.ErrConflict
	}
	a.Status = to
	a.UpdatedAt = at
	a.History = append(a.History, domain.StatusChange{From: from, To: to, At: at})
	return cloneAppointment(a), nil
}

func (r *stubAppointmentRepo) CountByStatus(_ context.Context, vetID string) (map[domain.AppointmentStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.AppointmentStatus]int64)
	for _, a := range r.byID {
		if a.VeterinarianID == vetID {
			out[a.Status]++
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) DeleteByAccount(_ context.Context, accountID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.byID {
		if a.IsParticipant(accountID) {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *stubAppointmentRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type stubRatingRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Rating
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{byID: make(map[string]*domain.Rating)}
}

// Create enforces the (rater, subject) uniqueness under the lock, like a
// unique index would.
func (r *stubRatingRepo) Create(_ context.Context, rt *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.RaterID == rt.RaterID && existing.SubjectID == rt.SubjectID {
			return domain.ErrDuplicateRating
		}
	}
	clone := *rt
	r.byID[rt.ID] = &clone
	return nil
}

func (r *stubRatingRepo) FindByID(_ context.Context, id string) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *rt
	return &clone, nil
}

func (r *stubRatingRepo) FindByPair(_ context.Context, raterID, subjectID string) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rt := range r.byID {
		if rt.RaterID == raterID && rt.SubjectID == subjectID {
			clone := *rt
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubRatingRepo) ListBySubject(_ context.Context, subjectID string) ([]*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Rating
	for _, rt := range r.byID {
		if rt.SubjectID == subjectID {
			clone := *rt
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubRatingRepo) Update(_ context.Context, id string, score int, comment string, at time.Time) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rt.Score = score
	rt.Comment = comment
	rt.UpdatedAt = at
	clone := *rt
	return &clone, nil
}

func (r *stubRatingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubRatingRepo) DeleteByAccount(_ context.Context, accountID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, rt := range r.byID {
		if rt.RaterID == accountID || rt.SubjectID == accountID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *stubRatingRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type stubRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Time)}
}

func (s *stubRevocations) Revoke(_ context.Context, id string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.revoked[id] = until
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[id]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func account(id string, role domain.Role) *domain.Account {
	return &domain.Account{
		ID:     id,
		Name:   id,
		Email:  id + "@example.com",
		Role:   role,
		Active: true,
	}
}

var (
	farmerF = account("farmer-f", domain.RoleFarmer)
	farmerG = account("farmer-g", domain.RoleFarmer)
	vetV    = account("vet-v", domain.RoleVeterinarian)
	vetW    = account("vet-w", domain.RoleVeterinarian)
	buyerB  = account("buyer-b", domain.RoleBuyer)
	sellerS = account("seller-s", domain.RoleSeller)
	adminA  = account("admin-a", domain.RoleAdmin)
)
