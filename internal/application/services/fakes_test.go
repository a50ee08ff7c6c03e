package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"

	"vault-api/internal/domain/vault"
	"vault-api/internal/domain/vaultaudit"
	"vault-api/internal/domain/vaultfile"
	"vault-api/internal/domain/vaultshare"
	"vault-api/internal/infrastructure/mq"
)

// In-memory repositories for service tests. They reproduce the atomicity the
// SQL layer guarantees: conditional transitions and counter updates happen
// under one lock.

type memFileRepo struct {
	mu    sync.Mutex
	files map[uuid.UUID]*vaultfile.VaultFile
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[uuid.UUID]*vaultfile.VaultFile)}
}

func cloneFile(f *vaultfile.VaultFile) *vaultfile.VaultFile {
	c := *f
	c.Tags = append([]string(nil), f.Tags...)
	return &c
}

func (r *memFileRepo) CreateFile(_ context.Context, f *vaultfile.VaultFile) (*vaultfile.VaultFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cloneFile(f)
	c.Version = 1
	c.LifecycleState = vaultfile.StateActive
	c.CreatedAt = time.Now()
	r.files[c.UUID] = c

	return cloneFile(c), nil
}

func (r *memFileRepo) InsertVersion(_ context.Context, f *vaultfile.VaultFile) (*vaultfile.VaultFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxVersion, total := 0, 0
	for _, existing := range r.files {
		if existing.VersionGroupID != f.VersionGroupID {
			continue
		}
		total++
		if existing.Version > maxVersion {
			maxVersion = existing.Version
		}
	}
	if total >= vaultfile.MaxVersions {
		return nil, fmt.Errorf("lineage full: %w", vault.ErrVersionLimit)
	}

	c := cloneFile(f)
	c.Version = maxVersion + 1
	c.LifecycleState = vaultfile.StateActive
	c.CreatedAt = time.Now()
	r.files[c.UUID] = c

	return cloneFile(c), nil
}

func (r *memFileRepo) FetchByID(_ context.Context, id uuid.UUID) (*vaultfile.VaultFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok || f.LifecycleState == vaultfile.StateHardDeleted {
		return nil, fmt.Errorf("file %s: %w", id, vault.ErrNotFound)
	}

	return cloneFile(f), nil
}

func (r *memFileRepo) FetchByIDs(_ context.Context, ids []uuid.UUID) (vaultfile.VaultFiles, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(vaultfile.VaultFiles, 0, len(ids))
	for _, id := range ids {
		if f, ok := r.files[id]; ok && f.LifecycleState != vaultfile.StateHardDeleted {
			out = append(out, cloneFile(f))
		}
	}

	return out, nil
}

func (r *memFileRepo) FetchOwned(_ context.Context, ownerID uuid.UUID, _ int) (vaultfile.VaultFiles, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out vaultfile.VaultFiles
	for _, f := range r.files {
		if f.OwnerID == ownerID && f.LifecycleState != vaultfile.StateHardDeleted {
			out = append(out, cloneFile(f))
		}
	}

	return out, nil
}

func (r *memFileRepo) FetchLineage(_ context.Context, groupID uuid.UUID) (vaultfile.VaultFiles, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out vaultfile.VaultFiles
	for _, f := range r.files {
		if f.VersionGroupID == groupID && f.LifecycleState != vaultfile.StateHardDeleted {
			out = append(out, cloneFile(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })

	return out, nil
}

func (r *memFileRepo) UpdateTagsExpiry(_ context.Context, id uuid.UUID, tags []string, expiry *time.Time) (*vaultfile.VaultFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok || f.LifecycleState == vaultfile.StateHardDeleted {
		return nil, fmt.Errorf("file %s: %w", id, vault.ErrNotFound)
	}
	f.Tags = append([]string(nil), tags...)
	f.Expiry = expiry

	return cloneFile(f), nil
}

func (r *memFileRepo) SoftDelete(_ context.Context, id, deletedBy uuid.UUID) (*vaultfile.VaultFile, error) {
	return r.transition(id, vaultfile.StateActive, vaultfile.StateSoftDeleted, &deletedBy)
}

func (r *memFileRepo) Restore(_ context.Context, id uuid.UUID) (*vaultfile.VaultFile, error) {
	return r.transition(id, vaultfile.StateSoftDeleted, vaultfile.StateActive, nil)
}

func (r *memFileRepo) HardDelete(_ context.Context, id, deletedBy uuid.UUID) (*vaultfile.VaultFile, error) {
	return r.transition(id, vaultfile.StateSoftDeleted, vaultfile.StateHardDeleted, &deletedBy)
}

func (r *memFileRepo) transition(id uuid.UUID, from, to vaultfile.LifecycleState, by *uuid.UUID) (*vaultfile.VaultFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, vault.ErrNotFound)
	}
	if f.LifecycleState != from {
		return nil, fmt.Errorf("file %s is %s: %w", id, f.LifecycleState, vault.ErrConflict)
	}
	f.LifecycleState = to
	if by != nil {
		now := time.Now()
		f.DeletedAt = &now
		f.DeletedBy = by
	} else {
		f.DeletedAt = nil
		f.DeletedBy = nil
	}

	return cloneFile(f), nil
}

type memShareRepo struct {
	mu     sync.Mutex
	shares map[string]*vaultshare.VaultShare
}

func newMemShareRepo() *memShareRepo {
	return &memShareRepo{shares: make(map[string]*vaultshare.VaultShare)}
}

func cloneShare(s *vaultshare.VaultShare) *vaultshare.VaultShare {
	c := *s
	c.FileIDs = append([]uuid.UUID(nil), s.FileIDs...)
	return &c
}

func (r *memShareRepo) Create(_ context.Context, s *vaultshare.VaultShare) (*vaultshare.VaultShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cloneShare(s)
	c.CreatedAt = time.Now()
	r.shares[c.Token] = c

	return cloneShare(c), nil
}

func (r *memShareRepo) FetchByToken(_ context.Context, token string) (*vaultshare.VaultShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[token]
	if !ok {
		return nil, fmt.Errorf("share: %w", vault.ErrNotFound)
	}

	return cloneShare(s), nil
}

func (r *memShareRepo) FetchOwned(_ context.Context, ownerID uuid.UUID) (vaultshare.VaultShares, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out vaultshare.VaultShares
	for _, s := range r.shares {
		if s.OwnerID == ownerID && !s.Revoked {
			out = append(out, cloneShare(s))
		}
	}

	return out, nil
}

func (r *memShareRepo) Consume(_ context.Context, token string) (*vaultshare.VaultShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[token]
	if !ok {
		return nil, fmt.Errorf("share: %w", vault.ErrNotFound)
	}
	if s.Exhausted(time.Now()) {
		return nil, fmt.Errorf("share: %w", vault.ErrGone)
	}
	s.AccessCount++

	return cloneShare(s), nil
}

func (r *memShareRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shares[token]
	if !ok {
		return fmt.Errorf("share: %w", vault.ErrNotFound)
	}
	s.Revoked = true

	return nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries vaultaudit.Entries
}

func (r *memAuditRepo) Record(_ context.Context, e vaultaudit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, &e)
}

func (r *memAuditRepo) FetchRecent(_ context.Context, limit int) (vaultaudit.Entries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make(vaultaudit.Entries, limit)
	copy(out, r.entries[len(r.entries)-limit:])

	return out, nil
}

func (r *memAuditRepo) lastStatus() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1].Status
}

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore { return &memStore{blobs: make(map[string][]byte)} }

func (s *memStore) Put(_ context.Context, key string, body io.Reader, _ int64) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = b

	return nil
}

func (s *memStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %q: %w", key, vault.ErrNotFound)
	}

	return io.NopCloser(bytes.NewReader(append([]byte(nil), b...))), nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)

	return nil
}

func (s *memStore) GetBucket() string { return "test-vault" }

func (s *memStore) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	return b, ok
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

type fakeBroker struct {
	in chan mq.Event
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{in: make(chan mq.Event, 256)}
}

func (f *fakeBroker) Connect(context.Context, string) error { return nil }
func (f *fakeBroker) Init() error                           { return nil }
func (f *fakeBroker) PublisherWorker(context.Context)       {}
func (f *fakeBroker) GetInputChan() chan mq.Event           { return f.in }
func (f *fakeBroker) GetConn() *amqp091.Connection          { return nil }

func testCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_general_counters"},
		[]string{"result"},
	)
}
