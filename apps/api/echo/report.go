package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core/report"
)

type reportApi struct {
	svc report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports", jwt)
	rg.GET("/dashboard", api.dashboard)
}

func (api *reportApi) dashboard(ctx echo.Context) error {
	dash, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}
