package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/announcement"
)

type announcementApi struct {
	svc *announcement.Service
}

func registerAnnouncementAPI(g *echo.Group, svc *announcement.Service) {
	api := announcementApi{svc: svc}

	g.POST("/teacher/announcement", api.create)
	g.GET("/announcements", api.query)
}

// Handlers

func (api *announcementApi) create(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data announcement.NewAnnouncement
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}

	a, err := api.svc.Create(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return created(ctx, a)
}

func (api *announcementApi) query(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	anns, err := api.svc.Query(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	return ok(ctx, anns)
}
