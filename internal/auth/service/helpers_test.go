package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/blob"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/mail"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store/drivers/sqlite"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/jwtx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestBlobs(t *testing.T) blob.ObjectStore {
	t.Helper()

	s, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func newTestTokens() *jwtx.TokenService {
	return &jwtx.TokenService{
		Secret: []byte("test-secret"),
		Issuer: "authapi-test",
	}
}

// captureMailer records sent messages; it can be told to fail.
type captureMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	fail     error
}

func (m *captureMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *captureMailer) sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.messages...)
}

func seedRoles(t *testing.T, s store.Store) map[string]domain.Role {
	t.Helper()

	svc := &RolesService{Store: s}
	out := make(map[string]domain.Role)
	for _, def := range domain.DefaultSeed().Roles {
		role, err := svc.CreateRole(context.Background(), def.Name, def.Description, def.Permission)
		require.NoError(t, err)
		out[def.Name] = role
	}
	return out
}
