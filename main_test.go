package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Wellbore/internal/auth"
	"Wellbore/internal/calc/casing"
	"Wellbore/internal/config"
	"Wellbore/internal/reftable"
	"Wellbore/internal/reftable/reftabletest"
	"Wellbore/internal/repo"

	"github.com/gorilla/mux"
)

func testServer(t *testing.T, tables *reftable.Store) *httptest.Server {
	t.Helper()
	cfg := config.Config{TokenKey: "test-key", RateLimit: 1000, RateBurst: 1000}
	r := mux.NewRouter()
	HandleList(r, cfg, repo.NewMemory(), tables)
	srv := httptest.NewServer(CORS(r))
	t.Cleanup(srv.Close)
	return srv
}

func session(t *testing.T, srv *httptest.Server) *http.Cookie {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/register", "application/json",
		strings.NewReader(`{"login":"driller","email":"d@example.com","password":"secret1"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestRoutes_CasingCalc(t *testing.T) {
	srv := testServer(t, reftabletest.Store())
	cookie := session(t, srv)

	body := `{"initial_dcsg": 177.8, "sections": [{"multiplier": 1.1, "metal_type": "N-80", "target_depth": 5000}]}`
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/user/tools/casing/calc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var res casing.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.State != casing.StateDone || res.Sections[0].BitSize != 215.9 {
		t.Errorf("result = %+v", res)
	}
}

func TestRoutes_RequireSession(t *testing.T) {
	srv := testServer(t, reftabletest.Store())
	for _, path := range []string{"/api/user/tools/casing/calc", "/api/user/tables/drill"} {
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader("{}"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
	}
}

func TestRoutes_Health(t *testing.T) {
	srv := testServer(t, reftable.NewStore(reftabletest.Casing(), nil))
	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var st tableStatus
	json.NewDecoder(resp.Body).Decode(&st)
	if !st.Casing || st.Drill {
		t.Errorf("status = %+v", st)
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := testServer(t, reftabletest.Store())
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/login", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight = %d %v", resp.StatusCode, resp.Header)
	}
}

func TestLoadTables_MissingFiles(t *testing.T) {
	store := loadTables(config.Config{CasingTable: "/nonexistent/casing.xlsx"})
	if _, err := store.Casing(); err == nil {
		t.Error("casing table should stay empty")
	}
}
