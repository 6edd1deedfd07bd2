package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/directory"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeDirectory struct {
	records    map[string]*domain.EmployeeRecord
	registered *domain.EmployeeRecord
	lookupErr  error
	regErr     error
}

func (f *fakeDirectory) FindByUsername(_ context.Context, username string) (*domain.EmployeeRecord, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	record, ok := f.records[username]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return record, nil
}

func (f *fakeDirectory) Register(_ context.Context, record *domain.EmployeeRecord) (*domain.EmployeeRecord, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	f.registered = record
	return record, nil
}

func newService(t *testing.T, dir directory.Directory) *service.AuthService {
	t.Helper()
	cfg := config.AuthConfig{JWTSecret: testSecret, TokenTTLMinutes: 600, BcryptCost: bcrypt.MinCost}
	return service.NewAuthService(cfg, dir, zap.NewNop())
}

func directoryWith(t *testing.T, username, password string, role domain.Role) *fakeDirectory {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeDirectory{records: map[string]*domain.EmployeeRecord{
		username: {Username: username, PasswordHash: hash, Role: string(role)},
	}}
}

func TestVerifySuccess(t *testing.T) {
	t.Parallel()

	svc := newService(t, directoryWith(t, "alice", "Secret123", domain.RoleManager))
	identity, err := svc.Verify(context.Background(), "alice", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Subject)
	assert.Equal(t, domain.RoleManager, identity.Role)
}

func TestVerifyBadPassword(t *testing.T) {
	t.Parallel()

	svc := newService(t, directoryWith(t, "alice", "Secret123", domain.RoleManager))
	_, err := svc.Verify(context.Background(), "alice", "wrongpw")
	requireDomainCode(t, err, "BAD_CREDENTIALS", 401)
}

func TestVerifyUnknownUser(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeDirectory{records: map[string]*domain.EmployeeRecord{}})
	_, err := svc.Verify(context.Background(), "ghost", "x")
	requireDomainCode(t, err, "USER_NOT_FOUND", 401)
}

func TestVerifyDirectoryUnavailable(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeDirectory{lookupErr: directory.ErrUnavailable})
	_, err := svc.Verify(context.Background(), "alice", "Secret123")
	requireDomainCode(t, err, "DIRECTORY_UNAVAILABLE", 503)
}

func TestLoginIssuesDecodableToken(t *testing.T) {
	t.Parallel()

	svc := newService(t, directoryWith(t, "alice", "Secret123", domain.RoleManager))
	token, _, err := svc.Login(context.Background(), "alice", "Secret123")
	require.NoError(t, err)

	identity, err := svc.TokenManager().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Subject)
	assert.Equal(t, domain.RoleManager, identity.Role)
}

func TestRegisterRequiresManager(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeDirectory{})
	record := &domain.EmployeeRecord{Username: "newhire"}

	_, err := svc.Register(context.Background(), nil, record, "Secret123")
	requireDomainCode(t, err, "FORBIDDEN", 403)

	employee := &domain.Identity{Subject: "bob", Role: domain.RoleEmployee}
	_, err = svc.Register(context.Background(), employee, record, "Secret123")
	requireDomainCode(t, err, "FORBIDDEN", 403)
}

func TestRegisterHashesPassword(t *testing.T) {
	t.Parallel()

	dir := &fakeDirectory{}
	svc := newService(t, dir)
	manager := &domain.Identity{Subject: "alice", Role: domain.RoleManager}

	saved, err := svc.Register(context.Background(), manager, &domain.EmployeeRecord{Username: "newhire"}, "Secret123")
	require.NoError(t, err)
	require.NotNil(t, dir.registered)
	assert.NotEqual(t, "Secret123", saved.PasswordHash)
	assert.NoError(t, auth.ComparePassword(saved.PasswordHash, "Secret123"))
}

func TestRegisterDirectoryNotFound(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeDirectory{regErr: directory.ErrNotFound})
	manager := &domain.Identity{Subject: "alice", Role: domain.RoleManager}

	_, err := svc.Register(context.Background(), manager, &domain.EmployeeRecord{Username: "newhire"}, "Secret123")
	requireDomainCode(t, err, "NOT_FOUND", 404)
}

func TestRegisterDirectoryUnavailable(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeDirectory{regErr: directory.ErrUnavailable})
	manager := &domain.Identity{Subject: "alice", Role: domain.RoleManager}

	_, err := svc.Register(context.Background(), manager, &domain.EmployeeRecord{Username: "newhire"}, "Secret123")
	requireDomainCode(t, err, "DIRECTORY_UNAVAILABLE", 503)
}

func requireDomainCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, code, domainErr.Code)
	assert.Equal(t, status, domainErr.HTTPStatus)
}
