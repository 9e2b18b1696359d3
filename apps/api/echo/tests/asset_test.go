package tests

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/user"
)

func seedCategory(t *testing.T, env *testEnv, name string) category.Category {
	t.Helper()
	cat, err := env.catRepo.CreateCategory(context.Background(), category.Category{Name: name})
	if err != nil {
		t.Fatalf("CreateCategory() failed: %v", err)
	}
	return cat
}

func Test_assetApi_crud(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Admin", "admino", "admin@test.cd", "Sup3r$ecret", user.AdminRoles)
	tech := env.createUser(t, "Tech", "techie", "tech@test.cd", "Sup3r$ecret", []string{user.RoleTechnician})
	viewer := env.createUser(t, "Viewer", "viewster", "viewer@test.cd", "Sup3r$ecret", []string{user.RoleViewer})
	cat := seedCategory(t, env, "Screens")

	newAsset := func(name string) []byte {
		return marshallObj(t, map[string]interface{}{
			"name":        name,
			"category_id": cat.ID,
		})
	}

	t.Run("create requires technician", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/assets", getToken(t, viewer), newAsset("Lobby Screen"))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	var created asset.Asset
	t.Run("technician can create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/assets", getToken(t, tech), newAsset("Lobby Screen"))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if created.ID == "" {
			t.Error("expected a server-generated id")
		}
		if created.Status != asset.StatusActive {
			t.Errorf("status = %q; want %q", created.Status, asset.StatusActive)
		}
		// fields left out of the payload get the same defaults as imports
		if created.DisplayOrientation != asset.OrientationLandscape {
			t.Errorf("orientation = %q; want %q", created.DisplayOrientation, asset.OrientationLandscape)
		}
		if created.OperatingHours != 8 {
			t.Errorf("operating hours = %d; want 8", created.OperatingHours)
		}
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"category_id": category.ErrNotFound.Error()}),
		}
		body := marshallObj(t, map[string]interface{}{"name": "Ghost", "category_id": "deadbeef"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/assets", getToken(t, tech), body)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/assets?search=lobby", getToken(t, viewer))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var page asset.Page
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if page.TotalCount != 1 || len(page.Items) != 1 {
			t.Fatalf("TotalCount = %d, items = %d; want 1, 1", page.TotalCount, len(page.Items))
		}
		if page.Items[0].ID != created.ID {
			t.Errorf("item id = %q; want %q", page.Items[0].ID, created.ID)
		}
	})

	t.Run("list rejects bad date filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/assets?installed_from=15/01/2024", getToken(t, viewer))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("admin can delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/assets/"+created.ID, getToken(t, admin))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}
	})
}

func Test_assetApi_export(t *testing.T) {
	env := setup(t)

	tech := env.createUser(t, "Tech", "techie", "tech@test.cd", "Sup3r$ecret", []string{user.RoleTechnician})
	cat := seedCategory(t, env, "Screens")

	if _, err := env.assetRepo.CreateAsset(context.Background(), asset.Asset{
		Name:       "Lobby Screen",
		CategoryID: cat.ID,
		Status:     asset.StatusActive,
	}); err != nil {
		t.Fatalf("CreateAsset() failed: %v", err)
	}

	t.Run("csv", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/assets/export?format=csv", getToken(t, tech))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %q; want text/csv", ct)
		}

		records, err := csv.NewReader(rec.Body).ReadAll()
		if err != nil {
			t.Fatalf("reading exported CSV: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("rows = %d; want 2 (header + 1 asset)", len(records))
		}
		if records[0][1] != "Asset Name" {
			t.Errorf("header[1] = %q; want \"Asset Name\"", records[0][1])
		}
		if records[1][1] != "Lobby Screen" {
			t.Errorf("row[1] = %q; want \"Lobby Screen\"", records[1][1])
		}
	})

	t.Run("xlsx", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/assets/export?format=xlsx", getToken(t, tech))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		if rec.Body.Len() == 0 {
			t.Error("expected a non-empty workbook")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/assets/export?format=pdf", getToken(t, tech))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})
}

func Test_assetApi_importCSV(t *testing.T) {
	env := setup(t)

	tech := env.createUser(t, "Tech", "techie", "tech@test.cd", "Sup3r$ecret", []string{user.RoleTechnician})
	cat := seedCategory(t, env, "Screens")

	row := func(name, categoryID string) string {
		fields := make([]string, len(asset.ExportHeader))
		fields[1] = name
		fields[2] = categoryID
		return strings.Join(fields, ",")
	}
	body := strings.Join([]string{
		strings.Join(asset.ExportHeader, ","),
		row("Lobby Screen", cat.ID),
		row("Cafeteria Screen", cat.ID),
		row("Ghost Screen", "deadbeef"),
	}, "\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "assets.csv")
	if err != nil {
		t.Fatalf("CreateFormFile() failed: %v", err)
	}
	if _, err = fw.Write([]byte(body)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/assets/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+getToken(t, tech))
	rec := httptest.NewRecorder()
	env.app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var res asset.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("Imported = %d; want 2", res.Imported)
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 4 {
		t.Errorf("Errors = %+v; want one error on row 4", res.Errors)
	}
}
