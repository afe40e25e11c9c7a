package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
	"github.com/Mashfooq/be-news-aggregator/internal/infrastructure/cache"
)

type fakeUserStore struct {
	byEmail map[string]domain.User
	nextID  int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]domain.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, hash string) (domain.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return domain.User{}, domain.ErrDuplicate
	}
	f.nextID++
	user := domain.User{ID: f.nextID, Name: name, Email: email, PasswordHash: hash}
	f.byEmail[email] = user
	return user, nil
}

func (f *fakeUserStore) UserByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, email, hash string) error {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = hash
	f.byEmail[email] = user
	return nil
}

type fakePreferenceStore struct {
	byUser map[int64]domain.Preferences
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{byUser: map[int64]domain.Preferences{}}
}

func (f *fakePreferenceStore) ReplacePreferences(_ context.Context, userID int64, prefs domain.Preferences) error {
	f.byUser[userID] = prefs
	return nil
}

func (f *fakePreferenceStore) PreferencesByUser(_ context.Context, userID int64) (domain.Preferences, error) {
	return f.byUser[userID], nil
}

type fakeArticleReader struct {
	views      []domain.ArticleView
	lastFilter domain.ArticleFilter
}

func (f *fakeArticleReader) ListArticles(_ context.Context, filter domain.ArticleFilter) ([]domain.ArticleView, int, error) {
	f.lastFilter = filter
	return f.views, len(f.views), nil
}

func (f *fakeArticleReader) GetArticle(_ context.Context, id int64) (domain.ArticleView, error) {
	for _, view := range f.views {
		if view.ID == id {
			return view, nil
		}
	}
	return domain.ArticleView{}, domain.ErrNotFound
}

type testEnv struct {
	server   *Server
	users    *fakeUserStore
	prefs    *fakePreferenceStore
	articles *fakeArticleReader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    newFakeUserStore(),
		prefs:    newFakePreferenceStore(),
		articles: &fakeArticleReader{},
	}
	env.server = NewServer(ServerDeps{
		Articles:    env.articles,
		Users:       env.users,
		Preferences: env.prefs,
		Tokens:      NewTokenManager("test-secret", time.Hour, cache.NewMemory()),
	})

	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

// seedUser registers directly against the fake store and returns a token.
func (env *testEnv) seedUser(t *testing.T, email, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := env.users.CreateUser(context.Background(), "Test User", email, string(hash))
	require.NoError(t, err)

	token, err := env.server.tokens.Issue(user.ID)
	require.NoError(t, err)

	return token
}
