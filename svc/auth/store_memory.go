package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryAccountStorage is a thread-safe in-memory AccountStorage, suitable
// for tests and single-process deployments. Production setups use the
// Postgres-backed storage instead.
type MemoryAccountStorage struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewMemoryAccountStorage creates an empty in-memory account store.
func NewMemoryAccountStorage() *MemoryAccountStorage {
	return &MemoryAccountStorage{accounts: make(map[string]*Account)}
}

func (s *MemoryAccountStorage) GetByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *MemoryAccountStorage) Create(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.Email]; exists {
		return ErrEmailAlreadyExists
	}
	cp := *account
	s.accounts[account.Email] = &cp
	return nil
}

func (s *MemoryAccountStorage) Update(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.Email]; !exists {
		return ErrAccountNotFound
	}
	cp := *account
	s.accounts[account.Email] = &cp
	return nil
}

func (s *MemoryAccountStorage) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, email)
	return nil
}

// MemoryRefreshTokenStore keeps one refresh record per email in memory.
// A background janitor sweeps expired records; callers must Close the
// store when done to stop it.
type MemoryRefreshTokenStore struct {
	mu      sync.RWMutex
	records map[string]RefreshRecord
	done    chan struct{}
	once    sync.Once
}

// NewMemoryRefreshTokenStore creates the store and starts a janitor that
// sweeps expired records at the given interval. An interval of zero
// disables the janitor; expired records are still rejected on read.
func NewMemoryRefreshTokenStore(cleanupInterval time.Duration) *MemoryRefreshTokenStore {
	s := &MemoryRefreshTokenStore{
		records: make(map[string]RefreshRecord),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}
	return s
}

func (s *MemoryRefreshTokenStore) Upsert(_ context.Context, rec RefreshRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Email] = rec
	return nil
}

func (s *MemoryRefreshTokenStore) FindByEmail(_ context.Context, email string) (RefreshRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[email]
	if !ok || rec.Expired(time.Now()) {
		return RefreshRecord{}, ErrInvalidToken
	}
	return rec, nil
}

func (s *MemoryRefreshTokenStore) FindByToken(_ context.Context, token string) (RefreshRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	for _, rec := range s.records {
		if rec.Token == token && !rec.Expired(now) {
			return rec, nil
		}
	}
	return RefreshRecord{}, ErrInvalidToken
}

func (s *MemoryRefreshTokenStore) PurgeExpired(_ context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, rec := range s.records {
		if rec.Expired(now) {
			delete(s.records, email)
		}
	}
	return nil
}

func (s *MemoryRefreshTokenStore) DeleteByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, email)
	return nil
}

// Close stops the janitor goroutine. Safe to call multiple times.
func (s *MemoryRefreshTokenStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryRefreshTokenStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.PurgeExpired(context.Background(), now)
		}
	}
}
