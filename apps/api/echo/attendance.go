package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	g.POST("/teacher/attendance", api.record)

	ag := g.Group("/attendance")
	ag.GET("/me", api.queryOwn)
	ag.GET("/class/:classId", api.queryClass)
}

// Handlers

func (api *attendanceApi) record(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data attendance.NewAttendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}

	records, err := api.svc.Record(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return created(ctx, records)
}

func (api *attendanceApi) queryOwn(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var filter attendance.QueryFilter
	if err = bindQuery(ctx, &filter); err != nil {
		return errors.Wrap(err, "binding to attendance.QueryFilter")
	}

	records, err := api.svc.QueryOwn(ctx.Request().Context(), p, filter)
	if err != nil {
		return errors.Wrap(err, "querying own attendance")
	}
	return ok(ctx, records)
}

func (api *attendanceApi) queryClass(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var filter attendance.QueryFilter
	if err = bindQuery(ctx, &filter); err != nil {
		return errors.Wrap(err, "binding to attendance.QueryFilter")
	}

	records, err := api.svc.QueryClass(ctx.Request().Context(), p, ctx.Param("classId"), filter)
	if err != nil {
		return errors.Wrap(err, "querying class attendance")
	}
	return ok(ctx, records)
}
