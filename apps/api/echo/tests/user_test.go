package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kahenga/onyesha/core/user"
)

func Test_userApi_login(t *testing.T) {
	env := setup(t)

	env.createUser(t, "Admin", "admino", "admin@test.cd", "Sup3r$ecret", user.AdminRoles)
	viewer := env.createUser(t, "Viewer", "viewster", "viewer@test.cd", "Sup3r$ecret", []string{user.RoleViewer})
	deactivate(t, env, viewer)

	tests := []httpTest{
		{
			name: "empty credentials", body: marshallObj(t, map[string]string{}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", body: marshallObj(t, map[string]string{"username": "ghost", "password": "lol"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: marshallObj(t, map[string]string{"username": "admino", "password": "wrong"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: marshallObj(t, map[string]string{"username": "viewster", "password": "Sup3r$ecret"}),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "ok", body: marshallObj(t, map[string]string{"username": "admino", "password": "Sup3r$ecret"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var resp map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if resp["token"] == "" {
					t.Error("expected a token in the response")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_signup(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name: "missing fields", body: marshallObj(t, map[string]string{}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"name":             "this field is required",
				"username":         "one of username or email is required",
				"email":            "one of username or email is required",
				"password":         "password must contain at least 8 characters",
				"password_confirm": "this field is required",
			}),
		},
		{
			name: "ok",
			body: marshallObj(t, map[string]interface{}{
				"name": "New Viewer", "username": "newbie1", "email": "newbie@test.cd",
				"password": "Sup3r$ecret", "password_confirm": "Sup3r$ecret",
			}),
			wantCode: http.StatusCreated,
		},
		{
			name: "requested roles are ignored",
			body: marshallObj(t, map[string]interface{}{
				"name": "Sneaky", "username": "sneaky1", "email": "sneaky@test.cd",
				"password": "Sup3r$ecret", "password_confirm": "Sup3r$ecret",
				"roles": user.AdminRoles,
			}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/signup", tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			var usr user.User
			if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			if usr.ID == "" {
				t.Error("expected a server-assigned id")
			}
			if len(usr.Roles) != 1 || usr.Roles[0] != user.RoleViewer {
				t.Errorf("Roles = %v; want %v", usr.Roles, user.ViewerRoles)
			}
		})
	}
}

func Test_userApi_me(t *testing.T) {
	env := setup(t)

	tech := env.createUser(t, "Tech", "techie", "tech@test.cd", "Sup3r$ecret", []string{user.RoleTechnician})

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/users/me",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "ok", path: "/v1/users/me", token: getToken(t, tech),
			wantCode: http.StatusOK, wantData: marshallObj(t, tech),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_query(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Admin", "admino", "admin@test.cd", "Sup3r$ecret", user.AdminRoles)
	tech := env.createUser(t, "Tech", "techie", "tech@test.cd", "Sup3r$ecret", []string{user.RoleTechnician})

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/users",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "admin required", path: "/v1/users", token: getToken(t, tech),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "get all", path: "/v1/users", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marshallObj(t, []user.User{admin, tech}),
		},
		{
			name: "search", path: "/v1/users?search=tech", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marshallObj(t, []user.User{tech}),
		},
		{
			name: "role filter", path: "/v1/users?role=" + user.RoleTechnician, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marshallObj(t, []user.User{tech}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Admin", "admino", "admin@test.cd", "Sup3r$ecret", user.AdminRoles)
	tech := env.createUser(t, "Tech", "techie", "tech@test.cd", "Sup3r$ecret", []string{user.RoleTechnician})

	tests := []httpTest{
		{
			name: "own profile", path: "/v1/users/" + tech.ID, token: getToken(t, tech),
			wantCode: http.StatusOK, wantData: marshallObj(t, tech),
		},
		{
			name: "admin can read others", path: "/v1/users/" + tech.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marshallObj(t, tech),
		},
		{
			name: "non-admin cannot read others", path: "/v1/users/" + admin.ID, token: getToken(t, tech),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "unknown id", path: "/v1/users/deadbeef", token: getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func deactivate(t *testing.T, env *testEnv, usr user.User) {
	t.Helper()
	inactive := false
	if _, err := env.usrSvc.Update(context.Background(), usr.ID, user.UpdateUser{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate() failed: %v", err)
	}
}
