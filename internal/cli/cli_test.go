package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/session"
	"campus-rental-client/internal/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	price := int64(10000)
	item := domain.Item{
		ID:               "itm_1",
		Name:             "Graphing Calculator",
		Category:         domain.CategoryElectronics,
		PricePerDayCents: price,
		Status:           domain.ItemStatusAvailable,
		Owner:            &domain.Owner{ID: "u_owner", Name: "Ravi"},
	}

	reply := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/items", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, []domain.Item{item})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, item)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/items/{id}/booked-dates", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, []domain.BookedRange{})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var creds domain.Credentials
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		if creds.Password != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			reply(w, map[string]string{"message": "Invalid credentials"})
			return
		}
		reply(w, domain.AuthResult{Token: "tok"})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/users/me", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, domain.User{ID: "u_1", Name: "Asha", Email: "asha@college.edu"})
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, baseURL, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "api:\n  base_url: " + baseURL + "\nsession:\n  path: " + filepath.Join(dir, "session.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath, "--ephemeral", "--quiet", "--no-browser"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "http://localhost:1", "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "campusrent dev")
}

func TestItemsList(t *testing.T) {
	srv := fakeBackend(t)

	out, err := run(t, srv.URL, "", "items", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Graphing Calculator")
	assert.Contains(t, out, "₹100.00")
}

func TestLogin(t *testing.T) {
	srv := fakeBackend(t)

	out, err := run(t, srv.URL, "secret123\n", "login", "--email", "asha@college.edu")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome back, Asha!")

	_, err = run(t, srv.URL, "wrong-password\n", "login", "--email", "asha@college.edu")
	assert.Error(t, err)
}

func TestProtectedCommandsRequireLogin(t *testing.T) {
	srv := fakeBackend(t)

	for _, args := range [][]string{
		{"bookings", "list"},
		{"returns", "pending"},
		{"wishlist", "list"},
		{"chat", "list"},
	} {
		_, err := run(t, srv.URL, "", args...)
		assert.ErrorIs(t, err, session.ErrNotLoggedIn, strings.Join(args, " "))
	}
}

func TestBookQuote(t *testing.T) {
	srv := fakeBackend(t)
	start := utils.Today(utils.SystemClock).AddDays(10)
	end := start.AddDays(2)

	out, err := run(t, srv.URL, "", "book", "itm_1", "--start", start.String(), "--end", end.String(), "--quote")
	require.NoError(t, err)
	assert.Contains(t, out, "Graphing Calculator")
	assert.Contains(t, out, "₹300.00")
}

func TestBookRejectsPastStart(t *testing.T) {
	srv := fakeBackend(t)
	start := utils.DateOf(time.Now().AddDate(0, 0, -3))
	end := start.AddDays(1)

	_, err := run(t, srv.URL, "", "book", "itm_1", "--start", start.String(), "--end", end.String(), "--quote")
	assert.EqualError(t, err, "Start date cannot be in the past")
}

func TestMergeForm(t *testing.T) {
	deposit := int64(5000)
	current := &domain.Item{
		Name:             "Tent",
		Description:      "Two person",
		Category:         domain.CategorySports,
		PricePerDayCents: 20000,
		BaseDepositCents: &deposit,
		Tags:             []string{"camping"},
	}

	form := mergeForm(current, domain.ItemForm{PricePerDayCents: 25000})
	assert.Equal(t, "Tent", form.Name)
	assert.Equal(t, int64(25000), form.PricePerDayCents)
	assert.Equal(t, &deposit, form.BaseDepositCents)
	assert.Equal(t, []string{"camping"}, form.Tags)
}
