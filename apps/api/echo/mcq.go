package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/mcq"
)

type testApi struct {
	svc *mcq.Service
}

func registerTestAPI(g *echo.Group, svc *mcq.Service) {
	api := testApi{svc: svc}

	tg := g.Group("/teacher/tests")
	tg.POST("", api.create)
	tg.POST("/:id/questions", api.addQuestions)
	tg.GET("/:id/submissions", api.querySubmissions)

	sg := g.Group("/student/tests")
	sg.GET("/:id", api.paper)
	sg.POST("/:id/submit", api.submit)
}

// Handlers

func (api *testApi) create(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data mcq.NewTest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTest")
	}

	test, err := api.svc.CreateTest(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "creating test")
	}
	return created(ctx, test)
}

func (api *testApi) addQuestions(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data mcq.NewQuestions
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestions")
	}

	qs, err := api.svc.AddQuestions(ctx.Request().Context(), p, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding questions")
	}
	return created(ctx, qs)
}

func (api *testApi) paper(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	paper, err := api.svc.Paper(ctx.Request().Context(), p, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting test paper")
	}
	return ok(ctx, paper)
}

func (api *testApi) submit(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data mcq.NewSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to mcq.NewSubmission")
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), p, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "submitting test")
	}
	return created(ctx, sub)
}

func (api *testApi) querySubmissions(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	subs, err := api.svc.QuerySubmissions(ctx.Request().Context(), p, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying test submissions")
	}
	return ok(ctx, subs)
}
