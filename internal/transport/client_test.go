package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asgsolar/luxclient/internal/domain"
	"github.com/asgsolar/luxclient/internal/keystore"
	"github.com/asgsolar/luxclient/internal/session"
	"github.com/asgsolar/luxclient/internal/transport"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func envelope[T any](data T) domain.APIResponse[T] {
	return domain.APIResponse[T]{Success: true, Data: data}
}

// apiFixture is a fake Lux API with a protected profile endpoint and
// a refresh endpoint, plus the client wired against it.
type apiFixture struct {
	mu           sync.Mutex
	validAccess  string
	refreshOK    bool
	refreshDelay time.Duration
	issued       domain.AuthToken

	profileCalls int32
	refreshCalls int32

	srv    *httptest.Server
	client *transport.Client
	sess   *session.Store
	keys   keystore.Store
}

func newFixture(t *testing.T) *apiFixture {
	t.Helper()

	f := &apiFixture{
		validAccess: "valid-access",
		refreshOK:   true,
		issued:      domain.AuthToken{Access: "valid-access", Refresh: "next-refresh", ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}

	r := chi.NewRouter()
	r.Post("/auth/refresh", f.handleRefresh)
	r.Get("/user/profile", f.handleProfile)
	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)

	f.sess = session.NewStore()
	f.keys = keystore.NewMemoryStore()
	f.client = transport.NewClient(f.srv.URL, 5*time.Second, f.sess, f.keys, zerolog.Nop())
	return f
}

func (f *apiFixture) handleRefresh(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.refreshCalls, 1)

	f.mu.Lock()
	ok := f.refreshOK
	delay := f.refreshDelay
	issued := f.issued
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	if !ok || body["refresh"] == "" {
		writeJSON(w, http.StatusUnauthorized, domain.APIResponse[any]{Success: false, Message: "invalid refresh token"})
		return
	}
	writeJSON(w, http.StatusOK, envelope(issued))
}

func (f *apiFixture) handleProfile(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.profileCalls, 1)

	f.mu.Lock()
	valid := f.validAccess
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+valid {
		writeJSON(w, http.StatusUnauthorized, domain.APIResponse[any]{Success: false, Message: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, envelope(domain.User{ID: "user-1", SiteReference: "ASG-1042"}))
}

func profileRequest() transport.Request {
	return transport.Request{Method: http.MethodGet, Path: "/user/profile"}
}

func TestClient_Do_Success(t *testing.T) {
	f := newFixture(t)
	f.sess.Login(domain.User{ID: "user-1"}, domain.AuthToken{Access: "valid-access", Refresh: "r1"})

	resp, err := f.client.Do(context.Background(), profileRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	user, err := transport.Decode[domain.User](resp)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	assert.EqualValues(t, 1, atomic.LoadInt32(&f.profileCalls))
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.refreshCalls))
}

func TestClient_Do_RefreshAndReplay(t *testing.T) {
	f := newFixture(t)
	f.sess.Login(domain.User{ID: "user-1"}, domain.AuthToken{Access: "stale", Refresh: "r1"})

	resp, err := f.client.Do(context.Background(), profileRequest())
	require.NoError(t, err)

	// Result is the replay's, not the original 401.
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// One original + one replay to the endpoint, one refresh.
	assert.EqualValues(t, 2, atomic.LoadInt32(&f.profileCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.refreshCalls))

	// The refresh is a global event: session and keystore both hold
	// the new pair.
	snap := f.sess.Get()
	require.NotNil(t, snap.Token)
	assert.Equal(t, "valid-access", snap.Token.Access)
	stored, err := f.keys.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "next-refresh", stored.Refresh)
}

func TestClient_Do_RefreshFails(t *testing.T) {
	f := newFixture(t)
	f.refreshOK = false
	f.sess.Login(domain.User{ID: "user-1"}, domain.AuthToken{Access: "stale", Refresh: "r1"})
	require.NoError(t, f.keys.Save(context.Background(), domain.AuthToken{Access: "stale", Refresh: "r1"}))

	_, err := f.client.Do(context.Background(), profileRequest())
	require.Error(t, err, "the refresh failure is surfaced, not the original 401")

	// No replay happened.
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.profileCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.refreshCalls))

	// Clean logout: credentials cleared, session reset.
	stored, loadErr := f.keys.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Nil(t, stored)
	assert.False(t, f.sess.Get().IsAuthenticated)
}

func TestClient_Do_NoRefreshToken(t *testing.T) {
	f := newFixture(t)
	// No session token, nothing persisted: the 401 is final.

	resp, err := f.client.Do(context.Background(), profileRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.EqualValues(t, 1, atomic.LoadInt32(&f.profileCalls))
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.refreshCalls))
	assert.False(t, f.sess.Get().IsAuthenticated)
}

func TestClient_Do_ConcurrentRefreshSingleFlight(t *testing.T) {
	f := newFixture(t)
	f.refreshDelay = 200 * time.Millisecond
	f.sess.Login(domain.User{ID: "user-1"}, domain.AuthToken{Access: "stale", Refresh: "r1"})

	const parallel = 8
	var wg sync.WaitGroup
	errs := make([]error, parallel)
	codes := make([]int, parallel)

	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.client.Do(context.Background(), profileRequest())
			errs[i] = err
			if resp != nil {
				codes[i] = resp.StatusCode
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < parallel; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, http.StatusOK, codes[i])
	}

	// Simultaneous 401 recoveries share one refresh round trip.
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.refreshCalls))
}

func TestClient_Bootstrap_NoToken(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.client.Bootstrap(context.Background()))

	snap := f.sess.Get()
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.refreshCalls))
}

func TestClient_Bootstrap_ValidToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.keys.Save(context.Background(), domain.AuthToken{Access: "old", Refresh: "persisted-refresh"}))

	require.NoError(t, f.client.Bootstrap(context.Background()))

	snap := f.sess.Get()
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.Token)
	assert.Equal(t, "valid-access", snap.Token.Access)
	require.NotNil(t, snap.User, "bootstrap installs a minimal identity")

	stored, err := f.keys.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "next-refresh", stored.Refresh)
}

func TestClient_Bootstrap_RefreshRejected(t *testing.T) {
	f := newFixture(t)
	f.refreshOK = false
	require.NoError(t, f.keys.Save(context.Background(), domain.AuthToken{Access: "old", Refresh: "persisted-refresh"}))

	require.NoError(t, f.client.Bootstrap(context.Background()))

	snap := f.sess.Get()
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)

	stored, err := f.keys.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestClient_Bootstrap_ExpiredJWTRefresh(t *testing.T) {
	f := newFixture(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, f.keys.Save(context.Background(), domain.AuthToken{Access: "old", Refresh: expired}))

	require.NoError(t, f.client.Bootstrap(context.Background()))

	// A locally expired refresh token never reaches the server.
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.refreshCalls))
	assert.False(t, f.sess.Get().IsAuthenticated)
	assert.False(t, f.sess.Get().Loading)

	stored, err := f.keys.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestClient_Bootstrap_BackfillsExpiry(t *testing.T) {
	f := newFixture(t)

	exp := time.Now().Add(15 * time.Minute)
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	f.mu.Lock()
	f.issued = domain.AuthToken{Access: access, Refresh: "next-refresh"} // no expires_at
	f.validAccess = access
	f.mu.Unlock()
	require.NoError(t, f.keys.Save(context.Background(), domain.AuthToken{Access: "old", Refresh: "persisted-refresh"}))

	require.NoError(t, f.client.Bootstrap(context.Background()))

	snap := f.sess.Get()
	require.NotNil(t, snap.Token)
	assert.Equal(t, exp.Unix(), snap.Token.ExpiresAt, "expires_at backfilled from the JWT exp claim")
}

func TestClient_LoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := domain.User{ID: "user-1", SiteReference: "ASG-1042"}
	token := domain.AuthToken{Access: "valid-access", Refresh: "r1"}

	require.NoError(t, f.client.Login(ctx, user, token))
	assert.True(t, f.sess.Get().IsAuthenticated)
	stored, err := f.keys.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)

	require.NoError(t, f.client.Logout(ctx))
	assert.False(t, f.sess.Get().IsAuthenticated)
	stored, err = f.keys.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestClient_Login_StoreFailurePropagates(t *testing.T) {
	keys := new(MockKeystore)
	keys.On("Save", mock.Anything, mock.Anything).Return(errors.New("secure storage unavailable"))

	sess := session.NewStore()
	client := transport.NewClient("http://unused", time.Second, sess, keys, zerolog.Nop())

	err := client.Login(context.Background(), domain.User{ID: "u"}, domain.AuthToken{Access: "a", Refresh: "r"})
	require.Error(t, err)

	// A failed persist must not leave the in-memory session claiming
	// an authenticated state the store does not back.
	assert.False(t, sess.Get().IsAuthenticated)
	keys.AssertExpectations(t)
}

func TestClient_RefreshSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := domain.User{ID: "user-1", SiteReference: "ASG-1042"}
	require.NoError(t, f.client.Login(ctx, user, domain.AuthToken{Access: "old", Refresh: "persisted-refresh"}))

	require.NoError(t, f.client.RefreshSession(ctx))

	snap := f.sess.Get()
	require.NotNil(t, snap.Token)
	assert.Equal(t, "valid-access", snap.Token.Access)
	assert.Equal(t, "user-1", snap.User.ID, "refresh keeps the user record")
}

func TestClient_RefreshSession_NoopWhenLoggedOut(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.client.RefreshSession(context.Background()))
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.refreshCalls))
}

func TestClient_Do_TransportError(t *testing.T) {
	f := newFixture(t)
	f.srv.Close()

	_, err := f.client.Do(context.Background(), profileRequest())
	assert.Error(t, err)
}

func TestDecode_ErrorEnvelope(t *testing.T) {
	resp := &transport.Response{
		StatusCode: http.StatusUnprocessableEntity,
		Body: []byte(`{"success":false,"message":"validation failed",` +
			`"errors":[{"field":"postcode","message":"postcode does not match site"}]}`),
	}

	_, err := transport.Decode[domain.User](resp)
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "validation failed", apiErr.Message)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "postcode", apiErr.Fields[0].Field)
}
