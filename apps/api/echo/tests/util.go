package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/kahenga/onyesha/apps/api/echo"
	"github.com/kahenga/onyesha/core"
	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/catalog"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/location"
	"github.com/kahenga/onyesha/core/maintenance"
	"github.com/kahenga/onyesha/core/report"
	"github.com/kahenga/onyesha/core/user"
	appfs "github.com/kahenga/onyesha/fs"
	emailsvc "github.com/kahenga/onyesha/services/email"
	logsvc "github.com/kahenga/onyesha/services/logger"
	inmemdb "github.com/kahenga/onyesha/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app echoapi.Server

	usrRepo    user.Repository
	catRepo    category.Repository
	masterRepo catalog.Repository
	locRepo    location.Repository
	schedRepo  maintenance.Repository
	assetRepo  asset.Repository

	usrSvc   user.Service
	assetSvc asset.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)
	user.InitTokenGenerator(conf)
	core.ParseEmailTemplates(appfs.FS, logger)

	db := inmemdb.Open()
	env := &testEnv{
		usrRepo:    inmemdb.NewUserRepository(db),
		catRepo:    inmemdb.NewCategoryRepository(db),
		masterRepo: inmemdb.NewMasterAssetRepository(db),
		locRepo:    inmemdb.NewLocationRepository(db),
		schedRepo:  inmemdb.NewScheduleRepository(db),
		assetRepo:  inmemdb.NewAssetRepository(db),
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	env.usrSvc = user.NewServiceMock(env.usrRepo, mailSvc)
	catSvc := category.NewService(env.catRepo)
	schedSvc := maintenance.NewService(env.schedRepo)
	masterSvc := catalog.NewService(env.masterRepo, env.catRepo, schedSvc)
	locSvc := location.NewService(env.locRepo)
	env.assetSvc = asset.NewService(env.assetRepo, env.catRepo, env.locRepo, env.schedRepo, env.masterRepo)
	reportSvc := report.NewService(env.assetRepo, env.catRepo, env.masterRepo, env.schedRepo)

	env.app = echoapi.NewServer(
		&echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,

			UserSvc:     env.usrSvc,
			CategorySvc: catSvc,
			CatalogSvc:  masterSvc,
			LocationSvc: locSvc,
			ScheduleSvc: schedSvc,
			AssetSvc:    env.assetSvc,
			ReportSvc:   reportSvc,

			DisableReqLogs: true,
		},
	)
	return env
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func (env *testEnv) createUser(t *testing.T, name, uname, email, pwd string, roles []string) user.User {
	t.Helper()
	usr, err := env.usrSvc.Create(context.Background(), user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           roles,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
