package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/assignment"
)

type assignmentApi struct {
	svc *assignment.Service
}

func registerAssignmentAPI(g *echo.Group, svc *assignment.Service) {
	api := assignmentApi{svc: svc}

	g.GET("/assignments", api.query)

	tg := g.Group("/teacher/assignments")
	tg.POST("", api.create)
	tg.GET("/:id/submissions", api.querySubmissions)

	g.POST("/student/assignments/:id/submit", api.submit)
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	asgmt, err := api.svc.Create(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return created(ctx, asgmt)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	asgmts, err := api.svc.Query(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ok(ctx, asgmts)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), p, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return created(ctx, sub)
}

func (api *assignmentApi) querySubmissions(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	subs, err := api.svc.QuerySubmissions(ctx.Request().Context(), p, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ok(ctx, subs)
}
