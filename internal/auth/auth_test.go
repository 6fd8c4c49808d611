package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/repositories"
	"github.com/desertthunder/shelf/internal/shared"
	tu "github.com/desertthunder/shelf/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fixture struct {
	svc      *Service
	sessions *repositories.SessionRepository
	clock    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := tu.NewTestDB(t)

	now := time.Now().UTC()
	f := &fixture{sessions: repositories.NewSessionRepository(db), clock: &now}
	f.svc = NewService(
		repositories.NewUserRepository(db),
		f.sessions,
		testSecret,
		time.Hour,
		shared.NewLogger(io.Discard),
		WithHashCost(bcrypt.MinCost),
		WithClock(func() time.Time { return *f.clock }),
	)
	return f
}

func (f *fixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		id, err := f.svc.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		assert.True(t, shared.IsID(id))
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)
		tests := []struct{ name, email, password string }{
			{"", "ada@example.com", "secret1"},
			{"Ada", "   ", "secret1"},
			{"Ada", "ada@example.com", ""},
			{"Ada", "ada@example.com", "12345"},
			{"Ada", "not-an-email", "secret1"},
		}
		for _, tt := range tests {
			_, err := f.svc.Register(ctx, tt.name, tt.email, tt.password)
			assert.ErrorIs(t, err, shared.ErrValidation, "input %+v", tt)
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, "Other", "ADA@example.com", "secret2")
		assert.ErrorIs(t, err, shared.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		id, err := f.svc.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)

		res, err := f.svc.Login(ctx, "Ada@Example.com", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, models.PublicUser{ID: id, Name: "Ada", Email: "ada@example.com"}, res.User)
	})

	t.Run("Wrong Password And Unknown Email Match", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)

		_, wrongPass := f.svc.Login(ctx, "ada@example.com", "nope-nope")
		_, unknown := f.svc.Login(ctx, "ghost@example.com", "secret1")

		assert.ErrorIs(t, wrongPass, shared.ErrAuth)
		assert.ErrorIs(t, unknown, shared.ErrAuth)
		assert.Equal(t, wrongPass.Error(), unknown.Error())
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, f *fixture) string {
		t.Helper()
		_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		res, err := f.svc.Login(ctx, "ada@example.com", "secret1")
		require.NoError(t, err)
		return res.Token
	}

	t.Run("Valid Token", func(t *testing.T) {
		f := newFixture(t)
		token := login(t, f)

		user, err := f.svc.CurrentUser(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name())
	})

	t.Run("Missing And Garbage", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CurrentUser(ctx, "")
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

		_, err = f.svc.CurrentUser(ctx, "not.a.token")
		assert.ErrorIs(t, err, shared.ErrInvalidToken)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		f := newFixture(t)
		login(t, f)

		forged, err := SignToken([]byte("other-secret"), models.NewSession("someone", time.Hour))
		require.NoError(t, err)

		_, err = f.svc.CurrentUser(ctx, forged)
		assert.ErrorIs(t, err, shared.ErrAuth)
		assert.Equal(t, shared.ErrInvalidToken, err)
		assert.NotContains(t, err.Error(), "signature")

		_, err = ParseToken([]byte("other-secret"), "not.a.token", time.Now())
		assert.Equal(t, shared.ErrInvalidToken, err)
	})

	t.Run("Expired", func(t *testing.T) {
		f := newFixture(t)
		token := login(t, f)

		f.advance(2 * time.Hour)
		_, err := f.svc.CurrentUser(ctx, token)
		assert.ErrorIs(t, err, shared.ErrTokenExpired)
	})

	t.Run("After Logout", func(t *testing.T) {
		f := newFixture(t)
		token := login(t, f)

		require.NoError(t, f.svc.Logout(ctx, token))
		_, err := f.svc.CurrentUser(ctx, token)
		assert.ErrorIs(t, err, shared.ErrAuth)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	assert.NoError(t, f.svc.Logout(ctx, res.Token))
	assert.NoError(t, f.svc.Logout(ctx, res.Token), "second logout should succeed")
	assert.NoError(t, f.svc.Logout(ctx, "garbage"))
	assert.NoError(t, f.svc.Logout(ctx, ""))
}

func TestPurgeExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	n, err := f.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.advance(2 * time.Hour)
	n, err = f.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	ok, err := CheckPassword(hash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "secret2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = CheckPassword("not-a-hash", "secret1")
	assert.False(t, ok)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	_, err := RequireUser(ctx)
	assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	assert.Empty(t, UserID(ctx))

	u := models.NewUser(1, "ada@example.com", "Ada", "hash")
	u.SetID("u1")
	ctx = WithUser(ctx, u)

	got, err := RequireUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID())
	assert.Equal(t, "u1", UserID(ctx))
}
