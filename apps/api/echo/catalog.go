package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core/catalog"
)

type masterAssetApi struct {
	svc      catalog.Service
	validate *validator.Validate
}

func registerMasterAssetAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc catalog.Service, validate *validator.Validate) {
	api := masterAssetApi{
		svc:      svc,
		validate: validate,
	}

	mg := g.Group("/master-assets", jwt)
	mg.GET("", api.query)
	mg.POST("", api.create, adminMiddleware())

	dg := mg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

func (api *masterAssetApi) create(ctx echo.Context) error {
	var data catalog.NewMasterAsset
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMasterAsset")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	ma, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating master asset")
	}
	return ctx.JSON(http.StatusCreated, ma)
}

func (api *masterAssetApi) query(ctx echo.Context) error {
	mas, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying master assets")
	}
	if mas == nil {
		mas = []catalog.MasterAsset{}
	}
	return ctx.JSON(http.StatusOK, mas)
}

func (api *masterAssetApi) retrieve(ctx echo.Context) error {
	ma, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ma)
}

func (api *masterAssetApi) update(ctx echo.Context) error {
	var data catalog.UpdateMasterAsset
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMasterAsset")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	ma, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ma)
}

func (api *masterAssetApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
