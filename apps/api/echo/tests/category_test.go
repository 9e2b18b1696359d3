package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/user"
)

func Test_categoryApi_crud(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	admin := env.createUser(t, "Admin", "admino", "admin@test.cd", "Sup3r$ecret", user.AdminRoles)
	viewer := env.createUser(t, "Viewer", "viewster", "viewer@test.cd", "Sup3r$ecret", []string{user.RoleViewer})
	adminToken := getToken(t, admin)

	t.Run("create requires admin", func(t *testing.T) {
		tt := httpTest{
			body:     marshallObj(t, category.NewCategory{Name: "Screens"}),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/categories", getToken(t, viewer), tt.body)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/categories", adminToken,
			marshallObj(t, category.NewCategory{Name: "Screens"}))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"name": "a category with this name already exists"}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/categories", adminToken,
			marshallObj(t, category.NewCategory{Name: "  screens "}))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("query visible to all authed users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/categories", getToken(t, viewer))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
	})

	t.Run("delete in use rejected", func(t *testing.T) {
		cats, err := env.catRepo.QueryCategories(ctx)
		if err != nil || len(cats) == 0 {
			t.Fatalf("seeding failed: %v", err)
		}
		cat := cats[0]
		if _, err := env.assetRepo.CreateAsset(ctx, asset.Asset{Name: "Lobby Screen", CategoryID: cat.ID, Status: asset.StatusActive}); err != nil {
			t.Fatalf("CreateAsset() failed: %v", err)
		}

		tt := httpTest{
			wantCode: http.StatusConflict,
			wantData: marshallObj(t, httpErr{Error: category.ErrInUse.Error()}),
		}
		req, rec := newAuthRequest(http.MethodDelete, "/v1/categories/"+cat.ID, adminToken)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: category.ErrNotFound.Error()}),
		}
		req, rec := newAuthRequest(http.MethodDelete, "/v1/categories/deadbeef", adminToken)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
