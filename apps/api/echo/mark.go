package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/mark"
)

type markApi struct {
	svc *mark.Service
}

func registerMarkAPI(g *echo.Group, svc *mark.Service) {
	api := markApi{svc: svc}

	mg := g.Group("/marks")
	mg.POST("", api.upload)
	mg.POST("/bulk", api.uploadBulk)
	mg.PUT("/:id", api.update)
	mg.GET("/me", api.queryOwn)
	mg.GET("/class/:classId", api.queryClass)
}

// Handlers

func (api *markApi) upload(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data mark.NewMark
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMark")
	}

	m, err := api.svc.Upload(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "uploading mark")
	}
	return created(ctx, m)
}

func (api *markApi) uploadBulk(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data mark.BulkMarks
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkMarks")
	}

	marks, err := api.svc.UploadBulk(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "uploading marks")
	}
	return created(ctx, marks)
}

func (api *markApi) update(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data mark.UpdateMark
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMark")
	}

	m, err := api.svc.Update(ctx.Request().Context(), p, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating mark")
	}
	return ok(ctx, m)
}

func (api *markApi) queryOwn(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	marks, err := api.svc.QueryOwn(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "querying own marks")
	}
	return ok(ctx, marks)
}

func (api *markApi) queryClass(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var filter mark.QueryFilter
	if err = bindQuery(ctx, &filter); err != nil {
		return errors.Wrap(err, "binding to mark.QueryFilter")
	}

	marks, err := api.svc.QueryClass(ctx.Request().Context(), p, ctx.Param("classId"), filter)
	if err != nil {
		return errors.Wrap(err, "querying class marks")
	}
	return ok(ctx, marks)
}
