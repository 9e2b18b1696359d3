package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core/maintenance"
)

type scheduleApi struct {
	svc      maintenance.Service
	validate *validator.Validate
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc maintenance.Service, validate *validator.Validate) {
	api := scheduleApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/maintenance-schedules", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, technicianMiddleware())
	sg.DELETE("", api.destroyMultiple, technicianMiddleware())

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, technicianMiddleware())
	dg.DELETE("", api.destroy, technicianMiddleware())
}

func (api *scheduleApi) create(ctx echo.Context) error {
	var data maintenance.NewSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchedule")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sched, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating maintenance schedule")
	}
	return ctx.JSON(http.StatusCreated, sched)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	scheds, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying maintenance schedules")
	}
	if scheds == nil {
		scheds = []maintenance.Schedule{}
	}
	return ctx.JSON(http.StatusOK, scheds)
}

func (api *scheduleApi) retrieve(ctx echo.Context) error {
	sched, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sched)
}

func (api *scheduleApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data maintenance.UpdateSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchedule")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	sched, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating maintenance schedule")
	}
	return ctx.JSON(http.StatusOK, sched)
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *scheduleApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
