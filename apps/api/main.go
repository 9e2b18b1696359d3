package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

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
	"github.com/kahenga/onyesha/storage/database"
	sqlxrepos "github.com/kahenga/onyesha/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// repositories
	usrRepo := sqlxrepos.NewUserRepository(db)
	catRepo := sqlxrepos.NewCategoryRepository(db)
	masterRepo := sqlxrepos.NewMasterAssetRepository(db)
	locRepo := sqlxrepos.NewLocationRepository(db)
	schedRepo := sqlxrepos.NewScheduleRepository(db)
	assetRepo := sqlxrepos.NewAssetRepository(db)

	// services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(usrRepo, mailSvc)
	catSvc := category.NewService(catRepo)
	schedSvc := maintenance.NewService(schedRepo)
	masterSvc := catalog.NewService(masterRepo, catRepo, schedSvc)
	locSvc := location.NewService(locRepo)
	assetSvc := asset.NewService(assetRepo, catRepo, locRepo, schedRepo, masterRepo)
	reportSvc := report.NewService(assetRepo, catRepo, masterRepo, schedRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)
	user.InitTokenGenerator(conf)

	core.ParseEmailTemplates(appfs.FS, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress(), http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,

			UserSvc:     usrSvc,
			CategorySvc: catSvc,
			CatalogSvc:  masterSvc,
			LocationSvc: locSvc,
			ScheduleSvc: schedSvc,
			AssetSvc:    assetSvc,
			ReportSvc:   reportSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
