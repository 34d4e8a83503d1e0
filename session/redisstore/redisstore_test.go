package redisstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := New(context.Background(), "redis://"+mr.Addr(), "market:session:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return mr, s
}

func TestCommitFindDelete(t *testing.T) {
	mr, s := setup(t)

	_, found, err := s.Find("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Commit("tok", []byte("payload"), time.Now().Add(time.Hour)))
	assert.True(t, mr.Exists("market:session:tok"))
	assert.True(t, mr.TTL("market:session:tok") > 59*time.Minute)

	b, found, err := s.Find("tok")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), b)

	require.NoError(t, s.Delete("tok"))
	assert.False(t, mr.Exists("market:session:tok"))
}

func TestExpiry(t *testing.T) {
	mr, s := setup(t)

	require.NoError(t, s.Commit("tok", []byte("payload"), time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	_, found, err := s.Find("tok")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Commit("old", []byte("payload"), time.Now().Add(-time.Second)))
	assert.False(t, mr.Exists("market:session:old"))
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), "not a url", "")
	assert.Error(t, err)
}

func TestSessionManager(t *testing.T) {
	_, s := setup(t)

	sm := scs.New()
	sm.Store = s

	put := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), "user_id", "1")
	}))
	get := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sm.GetString(r.Context(), "user_id")))
	}))

	w := httptest.NewRecorder()
	put.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	get.ServeHTTP(w, r)

	assert.Equal(t, "1", w.Body.String())
}
