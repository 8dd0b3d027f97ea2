package models

import (
	"context"
	"fmt"
	"sync"
)

// MemoryCredentialStore is an in-process CredentialStoreInterface used by
// tests and local development without a database.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	creds map[int64]*Credential
}

func NewMemoryCredentialStore(creds ...*Credential) *MemoryCredentialStore {
	m := &MemoryCredentialStore{creds: make(map[int64]*Credential)}
	for _, c := range creds {
		cp := *c
		m.creds[c.ID] = &cp
	}
	return m
}

func (m *MemoryCredentialStore) SelectAll(_ context.Context) ([]*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Credential, 0, len(m.creds))
	for _, c := range m.creds {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryCredentialStore) UpdateTokens(_ context.Context, id int64, accessToken, refreshToken string, expiresAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.creds[id]
	if !ok {
		return fmt.Errorf("credential %d not found", id)
	}
	c.AccessToken = accessToken
	c.RefreshToken = refreshToken
	c.ExpiresAt = expiresAt
	return nil
}

func (m *MemoryCredentialStore) Upsert(_ context.Context, cred *Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cred
	m.creds[cred.ID] = &cp
	return nil
}

func (m *MemoryCredentialStore) Get(id int64) (*Credential, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.creds[id]
	if !ok {
		return nil, false
	}
	cp := *c
	return &cp, true
}
