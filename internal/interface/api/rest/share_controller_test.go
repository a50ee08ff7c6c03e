package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vault-api/internal/application/ports"
	"vault-api/internal/domain/vault"
	domain "vault-api/internal/domain/vaultfile"
	"vault-api/internal/domain/vaultshare"
	jwtSvc "vault-api/internal/infrastructure/jwt"
)

type FakeShareService struct {
	CreateFunc         func(ctx context.Context, caller vault.Caller, in ports.CreateShareInput) (*vaultshare.VaultShare, error)
	ListOwnedFunc      func(ctx context.Context, caller vault.Caller) (vaultshare.VaultShares, error)
	ResolveFunc        func(ctx context.Context, token string) (*ports.ShareResolution, error)
	DownloadSharedFunc func(ctx context.Context, token string, fileID uuid.UUID) (*ports.DownloadResult, error)
	RevokeFunc         func(ctx context.Context, caller vault.Caller, token string) error
	BulkRevokeFunc     func(ctx context.Context, caller vault.Caller, tokens []string) (*ports.BulkRevokeResult, error)
}

func (f *FakeShareService) Create(ctx context.Context, caller vault.Caller, in ports.CreateShareInput) (*vaultshare.VaultShare, error) {
	if f.CreateFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateFunc(ctx, caller, in)
}
func (f *FakeShareService) ListOwned(ctx context.Context, caller vault.Caller) (vaultshare.VaultShares, error) {
	if f.ListOwnedFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListOwnedFunc(ctx, caller)
}
func (f *FakeShareService) Resolve(ctx context.Context, token string) (*ports.ShareResolution, error) {
	if f.ResolveFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ResolveFunc(ctx, token)
}
func (f *FakeShareService) DownloadShared(ctx context.Context, token string, fileID uuid.UUID) (*ports.DownloadResult, error) {
	if f.DownloadSharedFunc == nil {
		return nil, errors.New("not used")
	}
	return f.DownloadSharedFunc(ctx, token, fileID)
}
func (f *FakeShareService) Revoke(ctx context.Context, caller vault.Caller, token string) error {
	if f.RevokeFunc == nil {
		return errors.New("not used")
	}
	return f.RevokeFunc(ctx, caller, token)
}
func (f *FakeShareService) BulkRevoke(ctx context.Context, caller vault.Caller, tokens []string) (*ports.BulkRevokeResult, error) {
	if f.BulkRevokeFunc == nil {
		return nil, errors.New("not used")
	}
	return f.BulkRevokeFunc(ctx, caller, tokens)
}

func setupShareRouter(t *testing.T, ss ports.ShareService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewShareController(r, ss, zap.NewNop(), jwtSvc.New(testSecret))

	return r
}

func someShare(ownerID uuid.UUID, fileIDs ...uuid.UUID) *vaultshare.VaultShare {
	return &vaultshare.VaultShare{
		UUID:        uuid.New(),
		OwnerID:     ownerID,
		FileIDs:     fileIDs,
		Token:       "sALzzvmenpaW51wwyrSZlK0Rg_bcRR1IwRAWe4HGJHc",
		ExpiresAt:   time.Now().Add(vaultshare.DefaultTTL),
		AccessLimit: vaultshare.DefaultAccessLimit,
		CreatedAt:   time.Now(),
	}
}

func TestShareController_CreateHandler(t *testing.T) {
	ownerID := uuid.New()
	fileID := uuid.New()

	tests := []struct {
		name       string
		body       any
		mockSS     func() ports.ShareService
		wantStatus int
	}{
		{
			name:       "400 invalid JSON",
			body:       "{bad json",
			mockSS:     func() ports.ShareService { return &FakeShareService{} },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "400 no file ids",
			body:       map[string]any{"file_ids": []string{}},
			mockSS:     func() ports.ShareService { return &FakeShareService{} },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "400 malformed file id",
			body:       map[string]any{"file_ids": []string{"nope"}},
			mockSS:     func() ports.ShareService { return &FakeShareService{} },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "400 past expiry",
			body:       map[string]any{"file_ids": []string{fileID.String()}, "expires_at": time.Now().Add(-time.Hour).Format(time.RFC3339)},
			mockSS:     func() ports.ShareService { return &FakeShareService{} },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "400 negative access limit",
			body:       map[string]any{"file_ids": []string{fileID.String()}, "access_limit": -2},
			mockSS:     func() ports.ShareService { return &FakeShareService{} },
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "404 foreign file",
			body: map[string]any{"file_ids": []string{fileID.String()}},
			mockSS: func() ports.ShareService {
				return &FakeShareService{
					CreateFunc: func(ctx context.Context, caller vault.Caller, in ports.CreateShareInput) (*vaultshare.VaultShare, error) {
						return nil, fmt.Errorf("file: %w", vault.ErrNotFound)
					},
				}
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "201 success",
			body: map[string]any{"file_ids": []string{fileID.String()}, "message": "for review"},
			mockSS: func() ports.ShareService {
				return &FakeShareService{
					CreateFunc: func(ctx context.Context, caller vault.Caller, in ports.CreateShareInput) (*vaultshare.VaultShare, error) {
						if caller.ID != ownerID || len(in.FileIDs) != 1 {
							return nil, errors.New("input not forwarded")
						}
						return someShare(ownerID, fileID), nil
					},
				}
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupShareRouter(t, tt.mockSS())
			rr := doReq(t, r, http.MethodPost, RouteVaultShares, tt.body, bearerFor(t, ownerID.String(), "user"))
			require.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp["token"])
			}
		})
	}
}

func TestShareController_ResolveHandler(t *testing.T) {
	ownerID := uuid.New()
	fileID := uuid.New()

	tests := []struct {
		name       string
		token      string
		mockSS     func() ports.ShareService
		wantStatus int
		wantErr    string
	}{
		{
			name:  "404 unknown token",
			token: "unknown",
			mockSS: func() ports.ShareService {
				return &FakeShareService{
					ResolveFunc: func(ctx context.Context, token string) (*ports.ShareResolution, error) {
						return nil, fmt.Errorf("share: %w", vault.ErrNotFound)
					},
				}
			},
			wantStatus: http.StatusNotFound,
			wantErr:    "not found",
		},
		{
			name:  "410 exhausted",
			token: "spent",
			mockSS: func() ports.ShareService {
				return &FakeShareService{
					ResolveFunc: func(ctx context.Context, token string) (*ports.ShareResolution, error) {
						return nil, fmt.Errorf("share: %w", vault.ErrGone)
					},
				}
			},
			wantStatus: http.StatusGone,
			wantErr:    "share link is no longer active",
		},
		{
			name:  "200 success without auth",
			token: "good",
			mockSS: func() ports.ShareService {
				return &FakeShareService{
					ResolveFunc: func(ctx context.Context, token string) (*ports.ShareResolution, error) {
						s := someShare(ownerID, fileID)
						f := someVaultFile(ownerID)
						f.UUID = fileID
						return &ports.ShareResolution{
							Share: s,
							Files: domain.VaultFiles{f},
						}, nil
					},
				}
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupShareRouter(t, tt.mockSS())
			// no Authorization header on purpose
			rr := doReq(t, r, http.MethodGet, RouteApiV1+"/vault/shares/"+tt.token, nil, nil)
			require.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusOK {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Len(t, resp["files"], 1)
				// tokens and owner identity never leak to token holders
				assert.NotContains(t, resp, "token")
				assert.NotContains(t, resp, "owner_id")
			}
			if tt.wantErr != "" {
				var resp map[string]any
				_ = json.Unmarshal(rr.Body.Bytes(), &resp)
				assert.Equal(t, tt.wantErr, resp["error"])
			}
		})
	}
}

func TestShareController_DownloadHandler(t *testing.T) {
	fileID := uuid.New()

	t.Run("400 bad file id", func(t *testing.T) {
		r := setupShareRouter(t, &FakeShareService{})
		rr := doReq(t, r, http.MethodGet, RouteApiV1+"/vault/shares/tok/files/xx/download", nil, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("404 not in share", func(t *testing.T) {
		r := setupShareRouter(t, &FakeShareService{
			DownloadSharedFunc: func(ctx context.Context, token string, id uuid.UUID) (*ports.DownloadResult, error) {
				return nil, fmt.Errorf("file %s not in share: %w", id, vault.ErrNotFound)
			},
		})
		path := RouteApiV1 + "/vault/shares/tok/files/" + fileID.String() + "/download"
		rr := doReq(t, r, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("200 success", func(t *testing.T) {
		r := setupShareRouter(t, &FakeShareService{
			DownloadSharedFunc: func(ctx context.Context, token string, id uuid.UUID) (*ports.DownloadResult, error) {
				if token != "tok" || id != fileID {
					return nil, errors.New("input not forwarded")
				}
				return &ports.DownloadResult{
					Filename: "shared.txt",
					MimeType: "text/plain",
					Content:  []byte("hello"),
				}, nil
			},
		})
		path := RouteApiV1 + "/vault/shares/tok/files/" + fileID.String() + "/download"
		rr := doReq(t, r, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "hello", rr.Body.String())
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "shared.txt")
	})
}

func TestShareController_RevokeHandler(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name       string
		headers    map[string]string
		mockSS     func() ports.ShareService
		wantStatus int
	}{
		{
			name:       "401 unauthenticated",
			headers:    nil,
			mockSS:     func() ports.ShareService { return &FakeShareService{} },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "403 non-owner",
			mockSS: func() ports.ShareService {
				return &FakeShareService{
					RevokeFunc: func(ctx context.Context, caller vault.Caller, token string) error {
						return fmt.Errorf("share: %w", vault.ErrForbidden)
					},
				}
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "204 success",
			mockSS: func() ports.ShareService {
				return &FakeShareService{
					RevokeFunc: func(ctx context.Context, caller vault.Caller, token string) error {
						return nil
					},
				}
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			headers := tt.headers
			if headers == nil && tt.wantStatus != http.StatusUnauthorized {
				headers = bearerFor(t, ownerID.String(), "user")
			}
			r := setupShareRouter(t, tt.mockSS())
			rr := doReq(t, r, http.MethodDelete, RouteApiV1+"/vault/shares/tok", nil, headers)
			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestShareController_BulkRevokeHandler(t *testing.T) {
	ownerID := uuid.New()

	t.Run("400 empty tokens", func(t *testing.T) {
		r := setupShareRouter(t, &FakeShareService{})
		rr := doReq(t, r, http.MethodPost, RouteVaultSharesBulkRevoke,
			map[string]any{"tokens": []string{}}, bearerFor(t, ownerID.String(), "user"))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("200 partial result", func(t *testing.T) {
		r := setupShareRouter(t, &FakeShareService{
			BulkRevokeFunc: func(ctx context.Context, caller vault.Caller, tokens []string) (*ports.BulkRevokeResult, error) {
				return &ports.BulkRevokeResult{
					Revoked:  []string{"a"},
					NotFound: []string{"b"},
				}, nil
			},
		})
		rr := doReq(t, r, http.MethodPost, RouteVaultSharesBulkRevoke,
			map[string]any{"tokens": []string{"a", "b"}}, bearerFor(t, ownerID.String(), "user"))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp["revoked"], 1)
		assert.Len(t, resp["not_found"], 1)
	})
}
