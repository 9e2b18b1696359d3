package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core/location"
)

type locationApi struct {
	svc      location.Service
	validate *validator.Validate
}

func registerLocationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc location.Service, validate *validator.Validate) {
	api := locationApi{
		svc:      svc,
		validate: validate,
	}

	lg := g.Group("/locations", jwt)
	lg.GET("/hierarchy", api.hierarchy)

	// per-level endpoints; :level is one of location|section|sub_section|zone
	vg := lg.Group("/:level")
	vg.GET("", api.children)
	vg.POST("", api.create, adminMiddleware())

	dg := vg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.rename, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

func (api *locationApi) hierarchy(ctx echo.Context) error {
	h, err := api.svc.Hierarchy(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying location hierarchy")
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *locationApi) create(ctx echo.Context) error {
	level := ctx.Param("level")

	var data location.NewNode
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNode")
	}
	if err := data.Validate(ctx.Request().Context(), level, api.validate, api.svc); err != nil {
		return err
	}

	node, err := api.svc.Create(ctx.Request().Context(), level, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, node)
}

func (api *locationApi) children(ctx echo.Context) error {
	nodes, err := api.svc.Children(ctx.Request().Context(), ctx.Param("level"), ctx.QueryParam("parent_id"))
	if err != nil {
		return err
	}
	if nodes == nil {
		nodes = []location.Node{}
	}
	return ctx.JSON(http.StatusOK, nodes)
}

func (api *locationApi) retrieve(ctx echo.Context) error {
	node, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("level"), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, node)
}

func (api *locationApi) rename(ctx echo.Context) error {
	var data location.RenameNode
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RenameNode")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	node, err := api.svc.Rename(ctx.Request().Context(), ctx.Param("level"), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, node)
}

func (api *locationApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("level"), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
