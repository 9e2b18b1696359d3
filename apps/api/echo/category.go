package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core/category"
)

type categoryApi struct {
	svc      category.Service
	validate *validator.Validate
}

func registerCategoryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc category.Service, validate *validator.Validate) {
	api := categoryApi{
		svc:      svc,
		validate: validate,
	}

	cg := g.Group("/categories", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, adminMiddleware())

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

func (api *categoryApi) create(ctx echo.Context) error {
	var data category.NewCategory
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCategory")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	cat, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating category")
	}
	return ctx.JSON(http.StatusCreated, cat)
}

func (api *categoryApi) query(ctx echo.Context) error {
	cats, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	if cats == nil {
		cats = []category.Category{}
	}
	return ctx.JSON(http.StatusOK, cats)
}

func (api *categoryApi) retrieve(ctx echo.Context) error {
	cat, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cat)
}

func (api *categoryApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data category.UpdateCategory
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCategory")
	}
	if err := data.Validate(ctx.Request().Context(), orig, api.validate, api.svc); err != nil {
		return err
	}

	cat, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating category")
	}
	return ctx.JSON(http.StatusOK, cat)
}

func (api *categoryApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
