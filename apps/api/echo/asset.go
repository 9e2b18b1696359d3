package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core/asset"
)

const (
	exportFormatCSV   = "csv"
	exportFormatExcel = "xlsx"

	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type assetApi struct {
	svc      asset.Service
	validate *validator.Validate
}

func registerAssetAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc asset.Service, validate *validator.Validate) {
	api := assetApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/assets", jwt)
	ag.GET("", api.list)
	ag.POST("", api.create, technicianMiddleware())
	ag.DELETE("", api.destroyMultiple, technicianMiddleware())
	ag.GET("/export", api.export)
	ag.POST("/import", api.importCSV, technicianMiddleware())

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, technicianMiddleware())
	dg.DELETE("", api.destroy, technicianMiddleware())
}

// assetListQuery carries the list criteria; dates are bound as ISO strings.
type assetListQuery struct {
	Search         string   `query:"search"`
	CategoryID     string   `query:"category_id"`
	LocationID     string   `query:"location_id"`
	WarrantyStatus string   `query:"warranty_status"`
	PowerMin       *float64 `query:"power_min"`
	PowerMax       *float64 `query:"power_max"`
	InstalledFrom  string   `query:"installed_from"`
	InstalledTo    string   `query:"installed_to"`
	PurchasedFrom  string   `query:"purchased_from"`
	PurchasedTo    string   `query:"purchased_to"`

	Sort     string `query:"sort"`
	Desc     bool   `query:"desc"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

const queryDateLayout = "2006-01-02"

func (q *assetListQuery) filterState() (asset.FilterState, error) {
	fs := asset.FilterState{
		Search:         q.Search,
		CategoryID:     q.CategoryID,
		LocationID:     q.LocationID,
		WarrantyStatus: q.WarrantyStatus,
		PowerMin:       q.PowerMin,
		PowerMax:       q.PowerMax,
	}

	dates := []struct {
		raw   string
		field string
		dst   **time.Time
	}{
		{q.InstalledFrom, "installed_from", &fs.InstalledFrom},
		{q.InstalledTo, "installed_to", &fs.InstalledTo},
		{q.PurchasedFrom, "purchased_from", &fs.PurchasedFrom},
		{q.PurchasedTo, "purchased_to", &fs.PurchasedTo},
	}
	for _, d := range dates {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse(queryDateLayout, d.raw)
		if err != nil {
			return asset.FilterState{}, echo.NewHTTPError(http.StatusBadRequest, d.field+" must be a YYYY-MM-DD date")
		}
		*d.dst = &t
	}
	return fs, nil
}

func (api *assetApi) list(ctx echo.Context) error {
	var query assetListQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to assetListQuery")
	}
	fs, err := query.filterState()
	if err != nil {
		return err
	}

	page, err := api.svc.List(
		ctx.Request().Context(),
		fs,
		asset.Sort{Field: query.Sort, Descending: query.Desc},
		asset.PageParams{Page: query.Page, PageSize: query.PageSize},
	)
	if err != nil {
		return errors.Wrap(err, "listing assets")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *assetApi) create(ctx echo.Context) error {
	var data asset.NewAsset
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAsset")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	ast, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating asset")
	}
	return ctx.JSON(http.StatusCreated, ast)
}

func (api *assetApi) retrieve(ctx echo.Context) error {
	ast, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ast)
}

func (api *assetApi) update(ctx echo.Context) error {
	var data asset.UpdateAsset
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAsset")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	ast, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ast)
}

func (api *assetApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assetApi) destroyMultiple(ctx echo.Context) error {
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

func (api *assetApi) export(ctx echo.Context) error {
	var query assetListQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to assetListQuery")
	}
	fs, err := query.filterState()
	if err != nil {
		return err
	}

	format := ctx.QueryParam("format")
	if format == "" {
		format = exportFormatCSV
	}

	resp := ctx.Response()
	switch format {
	case exportFormatCSV:
		resp.Header().Set(echo.HeaderContentType, "text/csv")
		resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="assets.csv"`)
		resp.WriteHeader(http.StatusOK)
		_, err = api.svc.ExportCSV(ctx.Request().Context(), resp, fs)
	case exportFormatExcel:
		resp.Header().Set(echo.HeaderContentType, excelContentType)
		resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="assets.xlsx"`)
		resp.WriteHeader(http.StatusOK)
		_, err = api.svc.ExportExcel(ctx.Request().Context(), resp, fs)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "format must be one of: csv, xlsx")
	}
	return errors.Wrap(err, "exporting assets")
}

func (api *assetApi) importCSV(ctx echo.Context) error {
	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a CSV file is required in the \"file\" form field")
	}
	f, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	res, err := api.svc.ImportCSV(ctx.Request().Context(), f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
