package models

import (
	"context"

	"github.com/uptrace/bun"
)

type CredentialStoreInterface interface {
	// SelectAll returns every registered athlete's credential record.
	SelectAll(ctx context.Context) ([]*Credential, error)
	// UpdateTokens persists a refreshed token triple for one athlete.
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt int64) error
	// Upsert inserts a credential or, on id conflict, replaces its tokens
	// and profile image. Used by the authorization callback.
	Upsert(ctx context.Context, cred *Credential) error
}

type CredentialStore struct {
	db *bun.DB
}

func NewCredentialStore(db *bun.DB) CredentialStoreInterface {
	return &CredentialStore{db: db}
}

func (s *CredentialStore) SelectAll(ctx context.Context) ([]*Credential, error) {
	var creds []*Credential
	err := s.db.NewSelect().Model(&creds).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return creds, nil
}

func (s *CredentialStore) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt int64) error {
	_, err := s.db.NewUpdate().
		Model((*Credential)(nil)).
		Set("access_token = ?", accessToken).
		Set("refresh_token = ?", refreshToken).
		Set("expires_at = ?", expiresAt).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (s *CredentialStore) Upsert(ctx context.Context, cred *Credential) error {
	_, err := s.db.NewInsert().
		Model(cred).
		On("CONFLICT (id) DO UPDATE").
		Set("access_token = EXCLUDED.access_token").
		Set("refresh_token = EXCLUDED.refresh_token").
		Set("expires_at = EXCLUDED.expires_at").
		Set("profile_img_link = EXCLUDED.profile_img_link").
		Exec(ctx)
	return err
}
