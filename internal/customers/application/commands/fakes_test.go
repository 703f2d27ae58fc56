package commands

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/tenantry/internal/customers/domain"
	sharedDomain "github.com/felixgeelhaar/tenantry/internal/shared/domain"
	uploadsDomain "github.com/felixgeelhaar/tenantry/internal/uploads/domain"
)

// memCustomerRepo is an in-memory domain.Repository.
type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*domain.Customer
	saveErr   error
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: map[uuid.UUID]*domain.Customer{}}
}

func (r *memCustomerRepo) Save(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for id, other := range r.customers {
		if id != c.ID() && other.Code() == c.Code() {
			return domain.ErrDuplicateCode
		}
	}
	cp := *c
	r.customers[c.ID()] = &cp
	return nil
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, sharedDomain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) FindByCode(_ context.Context, code string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Code() == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sharedDomain.ErrNotFound
}

func (r *memCustomerRepo) List(_ context.Context, page, size int) ([]*domain.Customer, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	start := (page - 1) * size
	if start >= len(all) {
		return nil, len(all), nil
	}
	end := min(start+size, len(all))
	return all[start:end], len(all), nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return sharedDomain.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *memCustomerRepo) byCode(code string) *domain.Customer {
	c, _ := r.FindByCode(context.Background(), code)
	return c
}

// fakeUploads is an uploads repository and file store over a map of file contents.
type fakeUploads struct {
	uploads []*uploadsDomain.Upload
	files   map[string][]byte
	listErr error
}

func newFakeUploads() *fakeUploads {
	return &fakeUploads{files: map[string][]byte{}}
}

func (f *fakeUploads) add(group, name, content string) {
	locator := "mem://" + group + "/" + name
	u, err := uploadsDomain.NewUpload(group, name, "alice", group+"/"+name, locator, []byte(content))
	if err != nil {
		panic(err)
	}
	f.uploads = append(f.uploads, u)
	f.files[locator] = []byte(content)
}

func (f *fakeUploads) Save(context.Context, *uploadsDomain.Upload) error { return nil }

func (f *fakeUploads) FindByID(context.Context, uuid.UUID) (*uploadsDomain.Upload, error) {
	return nil, sharedDomain.ErrNotFound
}

func (f *fakeUploads) Delete(context.Context, uuid.UUID) error { return nil }

func (f *fakeUploads) ListByGroup(_ context.Context, groupID string) ([]*uploadsDomain.Upload, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*uploadsDomain.Upload
	for _, u := range f.uploads {
		if u.GroupID() == groupID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUploads) Load(_ context.Context, locator string) ([]byte, error) {
	data, ok := f.files[locator]
	if !ok {
		return nil, uploadsDomain.ErrFileNotFound
	}
	return data, nil
}

func (f *fakeUploads) Store(context.Context, string, []byte) (string, error) { return "", nil }

// fileStore adapts fakeUploads to uploadsDomain.FileStore.
type fileStore struct{ *fakeUploads }

func (s fileStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	return s.fakeUploads.Store(ctx, key, data)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event sharedDomain.Event) error {
	return m.Called(ctx, event).Error(0)
}

// recordingUnitOfWork counts transaction boundaries.
type recordingUnitOfWork struct {
	begun, committed, rolledBack int
}

func (u *recordingUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.begun++
	return ctx, nil
}

func (u *recordingUnitOfWork) Commit(context.Context) error {
	u.committed++
	return nil
}

func (u *recordingUnitOfWork) Rollback(context.Context) error {
	u.rolledBack++
	return nil
}
