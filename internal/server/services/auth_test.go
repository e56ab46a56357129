package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/todoserver/internal/common"
	"github.com/dmitrijs2005/todoserver/internal/dbx"
	"github.com/dmitrijs2005/todoserver/internal/server/auth"
	"github.com/dmitrijs2005/todoserver/internal/server/config"
	"github.com/dmitrijs2005/todoserver/internal/server/models"
	todosrepo "github.com/dmitrijs2005/todoserver/internal/server/repositories/todos"
	usersrepo "github.com/dmitrijs2005/todoserver/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUsersRepo struct {
	createErr error

	byUsername map[string]*models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.byUsername == nil {
		f.byUsername = make(map[string]*models.User)
	}
	if _, ok := f.byUsername[u.Username]; ok {
		return nil, common.ErrorDuplicateUsername
	}
	f.byUsername[u.Username] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTodosRepo
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository              { return m.u }
func (m *fakeRepoManager) Todos(db dbx.DBTX) todosrepo.Repository              { return m.t }

func newAuthService(t *testing.T, repo *fakeUsersRepo) *AuthService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		BcryptCost:                  4,
	}
	return NewAuthService(nil, &fakeRepoManager{u: repo},
		auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewTokenCodec([]byte(cfg.SecretKey)),
		auth.NewRevocationList(),
		cfg)
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	user, err := s.Register(context.Background(), "alice", "Alice", "Liddell", "wonderland")
	require.NoError(t, err)

	require.Len(t, user.ID, 26)
	assert.NotEqual(t, "wonderland", user.PasswordHash)
	assert.True(t, auth.NewBcryptHasher(4).Verify("wonderland", user.PasswordHash))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	_, err := s.Register(context.Background(), "alice", "", "", "pw1")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "alice", "", "", "pw2")
	require.ErrorIs(t, err, common.ErrorDuplicateUsername)
	assert.Len(t, repo.byUsername, 1, "second user must not be created")
}

func TestLogin_Success(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	_, err := s.Register(context.Background(), "alice", "", "", "wonderland")
	require.NoError(t, err)

	token, err := s.Login(context.Background(), "alice", "wonderland")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, _, err := auth.NewTokenCodec([]byte("k")).Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLogin_BadPasswordAndUnknownUser_Indistinguishable(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	_, err := s.Register(context.Background(), "alice", "", "", "wonderland")
	require.NoError(t, err)

	_, errWrongPassword := s.Login(context.Background(), "alice", "nope")
	_, errUnknownUser := s.Login(context.Background(), "ghost", "nope")

	require.ErrorIs(t, errWrongPassword, common.ErrorInvalidCredentials)
	require.ErrorIs(t, errUnknownUser, common.ErrorInvalidCredentials)
	assert.Equal(t, errWrongPassword, errUnknownUser)
}

func TestVerifyToken_Success(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	registered, err := s.Register(context.Background(), "alice", "", "", "pw")
	require.NoError(t, err)

	token, err := s.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	user, err := s.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestVerifyToken_Expired(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	_, err := s.Register(context.Background(), "alice", "", "", "pw")
	require.NoError(t, err)

	expired, err := auth.NewTokenCodec([]byte("k")).Issue("alice", -time.Second)
	require.NoError(t, err)

	_, err = s.VerifyToken(context.Background(), expired)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestVerifyToken_GarbageAndWrongKey(t *testing.T) {
	s := newAuthService(t, &fakeUsersRepo{})

	_, err := s.VerifyToken(context.Background(), "not.a.token")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	forged, err := auth.NewTokenCodec([]byte("other-key")).Issue("alice", time.Hour)
	require.NoError(t, err)
	_, err = s.VerifyToken(context.Background(), forged)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestVerifyToken_SubjectMissing(t *testing.T) {
	s := newAuthService(t, &fakeUsersRepo{})

	token, err := auth.NewTokenCodec([]byte("k")).Issue("deleted-user", time.Hour)
	require.NoError(t, err)

	_, err = s.VerifyToken(context.Background(), token)
	require.ErrorIs(t, err, common.ErrorUnauthorized,
		"a valid token whose subject no longer exists must look like any other auth failure")
}

func TestLogout_RevokesToken_Idempotent(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	_, err := s.Register(context.Background(), "alice", "", "", "pw")
	require.NoError(t, err)
	token, err := s.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	s.Logout(context.Background(), token)

	_, err = s.VerifyToken(context.Background(), token)
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	// logging out twice is not an error, nor is logging out garbage
	s.Logout(context.Background(), token)
	s.Logout(context.Background(), "garbage")
}

func TestRefreshToken_IssuesNewAndRevokesOld(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	_, err := s.Register(context.Background(), "alice", "", "", "pw")
	require.NoError(t, err)
	oldToken, err := s.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	// refresh happens right after login, typically within the same second
	// of the token timestamps, and must still produce a distinct token
	newToken, err := s.RefreshToken(context.Background(), oldToken)
	require.NoError(t, err)
	require.NotEmpty(t, newToken)
	require.NotEqual(t, oldToken, newToken, "refresh must mint a distinct token")

	_, err = s.VerifyToken(context.Background(), newToken)
	require.NoError(t, err, "refreshed token must verify")

	_, err = s.VerifyToken(context.Background(), oldToken)
	require.ErrorIs(t, err, common.ErrorUnauthorized, "old token must be revoked on refresh")
}

func TestRefreshToken_RejectsInvalid(t *testing.T) {
	s := newAuthService(t, &fakeUsersRepo{})

	_, err := s.RefreshToken(context.Background(), "garbage")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestGetUserIDFromToken(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newAuthService(t, repo)

	registered, err := s.Register(context.Background(), "alice", "", "", "pw")
	require.NoError(t, err)
	token, err := s.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	gotID, err := s.GetUserIDFromToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, gotID)
}

var (
	_ usersrepo.Repository = (*fakeUsersRepo)(nil)
	_ todosrepo.Repository = (*fakeTodosRepo)(nil)
)
