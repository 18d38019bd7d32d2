package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/api"
	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.Open(store.Options{DataDir: t.TempDir()})
	qt.Assert(t, err, qt.IsNil)

	jwtService := auth.NewJWTService("test-secret", time.Hour)
	log := zap.NewNop()

	handler := api.NewHandler(st, jwtService, log)
	adminHandler := api.NewAdminHandler(st, log)
	authHandler := api.NewAuthHandler(st, jwtService, log)

	router := api.SetupRouter(handler, adminHandler, authHandler, []string{"http://localhost:3000"})
	return &testServer{router: router, store: st}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		qt.Assert(t, json.NewEncoder(&buf).Encode(body), qt.IsNil)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	qt.Assert(t, w.Code, qt.Equals, http.StatusOK)

	var resp struct {
		Token string `json:"token"`
	}
	qt.Assert(t, json.Unmarshal(w.Body.Bytes(), &resp), qt.IsNil)
	qt.Assert(t, resp.Token, qt.Not(qt.Equals), "")
	return resp.Token
}

func TestHealth(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/health", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
}

func TestLoginFlow(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "superadmin",
		"password": "wrong",
	})
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)

	token := s.login(t, "superadmin", store.DefaultSuperAdminPassword)

	w = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &me), qt.IsNil)
	c.Assert(me.Username, qt.Equals, "superadmin")
	c.Assert(me.Role, qt.Equals, "super_admin")

	// No token, no entry.
	w = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
}

func TestLoginRateLimiting(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)

	for i := 0; i < 5; i++ {
		w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"username": "superadmin",
			"password": "wrong",
		})
		c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	}

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "superadmin",
		"password": "wrong",
	})
	c.Assert(w.Code, qt.Equals, http.StatusTooManyRequests)
}

func TestCompanyAdministration(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)
	token := s.login(t, "superadmin", store.DefaultSuperAdminPassword)

	w := s.do(t, http.MethodPost, "/api/companies", token, gin.H{"name": "Acme Corp"})
	c.Assert(w.Code, qt.Equals, http.StatusCreated)

	var company struct {
		ID   int    `json:"id"`
		Slug string `json:"slug"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &company), qt.IsNil)
	c.Assert(company.Slug, qt.Equals, "acme-corp")

	// Duplicate slug surfaces as a conflict.
	w = s.do(t, http.MethodPost, "/api/companies", token, gin.H{"name": "ACME CORP"})
	c.Assert(w.Code, qt.Equals, http.StatusConflict)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/companies/%d/stats", company.ID), token, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	// The login page listing is public and trimmed down.
	w = s.do(t, http.MethodGet, "/api/companies/public", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	var public []map[string]any
	c.Assert(json.Unmarshal(w.Body.Bytes(), &public), qt.IsNil)
	c.Assert(public, qt.HasLen, 1)
	c.Assert(public[0]["name"], qt.Equals, "Acme Corp")
	c.Assert(public[0]["slug"], qt.IsNil)
}

func TestCompanyScopedAssetFlow(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)
	super := s.login(t, "superadmin", store.DefaultSuperAdminPassword)

	w := s.do(t, http.MethodPost, "/api/companies", super, gin.H{"name": "Acme Corp"})
	c.Assert(w.Code, qt.Equals, http.StatusCreated)
	var company struct {
		ID int `json:"id"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &company), qt.IsNil)

	w = s.do(t, http.MethodPost, "/api/users", super, gin.H{
		"username":  "ed",
		"password":  "pass123",
		"role":      "editor",
		"companyId": company.ID,
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	w = s.do(t, http.MethodPost, "/api/users", super, gin.H{
		"username":  "vi",
		"password":  "pass123",
		"role":      "viewer",
		"companyId": company.ID,
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	editor := s.login(t, "ed", "pass123")
	viewer := s.login(t, "vi", "pass123")

	// The editor's company comes from the token, no header needed.
	w = s.do(t, http.MethodPost, "/api/assets", editor, gin.H{
		"name":         "Drill",
		"purchaseCost": 150,
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	var created struct {
		ID int `json:"id"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &created), qt.IsNil)

	// Defaults applied on the way in.
	asset, err := s.store.GetAsset(created.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(asset.Category, qt.Equals, "Other")
	c.Assert(asset.Quantity, qt.Equals, 1)
	c.Assert(asset.CurrentValue, qt.Equals, 150.0)
	c.Assert(asset.DepreciationRate, qt.Equals, 10.0)

	// Viewers can read but not write.
	w = s.do(t, http.MethodGet, "/api/assets", viewer, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	w = s.do(t, http.MethodPost, "/api/assets", viewer, gin.H{"name": "Nope"})
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)

	// Viewers cannot manage users either.
	w = s.do(t, http.MethodGet, "/api/users", viewer, nil)
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)

	// Editors cannot reach company administration.
	w = s.do(t, http.MethodGet, "/api/companies", editor, nil)
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)
}

func TestSuperAdminTargetsCompanyByHeader(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)
	super := s.login(t, "superadmin", store.DefaultSuperAdminPassword)

	w := s.do(t, http.MethodPost, "/api/companies", super, gin.H{"name": "Acme Corp"})
	c.Assert(w.Code, qt.Equals, http.StatusCreated)
	var company struct {
		ID int `json:"id"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &company), qt.IsNil)

	// Without a target company the scoped routes refuse.
	w = s.do(t, http.MethodGet, "/api/assets", super, nil)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/assets?company_id=%d", company.ID), super, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
}

func TestSelfDeleteRefused(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)
	super := s.login(t, "superadmin", store.DefaultSuperAdminPassword)

	me, err := s.store.GetUser("superadmin")
	c.Assert(err, qt.IsNil)

	w := s.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", me.ID), super, nil)
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
}

func TestBulkTransferLeavesNotes(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)
	super := s.login(t, "superadmin", store.DefaultSuperAdminPassword)

	w := s.do(t, http.MethodPost, "/api/companies", super, gin.H{"name": "Acme Corp"})
	c.Assert(w.Code, qt.Equals, http.StatusCreated)
	var company struct {
		ID int `json:"id"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &company), qt.IsNil)

	warehouse, err := s.store.CreateLocation(store.NewLocation{CompanyID: company.ID, Name: "Warehouse"})
	c.Assert(err, qt.IsNil)
	asset, err := s.store.CreateAsset(store.NewAsset{CompanyID: company.ID, Name: "Drill", Quantity: 1})
	c.Assert(err, qt.IsNil)

	path := fmt.Sprintf("/api/assets/bulk-transfer?company_id=%d", company.ID)
	w = s.do(t, http.MethodPost, path, super, gin.H{
		"assetIds":   []int{asset.ID},
		"locationId": warehouse.ID,
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	views := s.store.GetAssets(company.ID)
	c.Assert(views, qt.HasLen, 1)
	c.Assert(views[0].LocationName, qt.Equals, "Warehouse")
	c.Assert(views[0].Notes, qt.HasLen, 1)
	c.Assert(views[0].Notes[0].Text, qt.Equals, "Transferred from Unknown to Warehouse")
}

func TestImportEndpoint(t *testing.T) {
	c := qt.New(t)
	s := newTestServer(t)
	super := s.login(t, "superadmin", store.DefaultSuperAdminPassword)

	w := s.do(t, http.MethodPost, "/api/import", super, gin.H{
		"companyName": "Old Shop",
		"data": gin.H{
			"assets": []gin.H{{"id": 1, "name": "Drill"}},
		},
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	var summary struct {
		CompanyID int    `json:"companyId"`
		Slug      string `json:"slug"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &summary), qt.IsNil)
	c.Assert(summary.Slug, qt.Equals, "old-shop")
	c.Assert(s.store.GetAssets(summary.CompanyID), qt.HasLen, 1)
}
