package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kahenga/onyesha/core/location"
	"github.com/kahenga/onyesha/core/user"
)

func Test_locationApi_hierarchy(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Admin", "admino", "admin@test.cd", "Sup3r$ecret", user.AdminRoles)
	adminToken := getToken(t, admin)

	createNode := func(t *testing.T, level, name, parentID string) location.Node {
		t.Helper()
		body := marshallObj(t, map[string]string{"name": name, "parent_id": parentID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/locations/"+level, adminToken, body)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("creating %s %q: code = %v: %s", level, name, rec.Code, rec.Body.String())
		}
		var node location.Node
		if err := json.Unmarshal(rec.Body.Bytes(), &node); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		return node
	}

	hq := createNode(t, location.LevelLocation, "HQ", "")
	floor := createNode(t, location.LevelSection, "Ground Floor", hq.ID)
	wing := createNode(t, location.LevelSubSection, "East Wing", floor.ID)
	createNode(t, location.LevelZone, "Reception", wing.ID)

	t.Run("section without parent rejected", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"name": "Orphan Floor"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/locations/"+location.LevelSection, adminToken, body)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("invalid level rejected", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"name": "Nope"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/locations/galaxy", adminToken, body)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("full hierarchy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/locations/hierarchy", adminToken)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var h location.Hierarchy
		if err := json.Unmarshal(rec.Body.Bytes(), &h); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(h.Locations) != 1 || len(h.Sections) != 1 || len(h.SubSections) != 1 || len(h.Zones) != 1 {
			t.Errorf("hierarchy = %d/%d/%d/%d; want 1/1/1/1",
				len(h.Locations), len(h.Sections), len(h.SubSections), len(h.Zones))
		}
	})

	t.Run("children", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/locations/"+location.LevelSection+"?parent_id="+hq.ID, adminToken)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var nodes []location.Node
		if err := json.Unmarshal(rec.Body.Bytes(), &nodes); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(nodes) != 1 || nodes[0].ID != floor.ID {
			t.Errorf("children = %+v; want one entry %q", nodes, floor.ID)
		}
	})

	t.Run("delete with children rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/locations/"+location.LevelLocation+"/"+hq.ID, adminToken)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusConflict, rec.Body.String())
		}
	})
}
