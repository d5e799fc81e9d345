package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/gate"
	"github.com/trezcool/campus/core/notification"
)

type notificationApi struct {
	svc  *notification.Service
	gate *gate.Gate
}

func registerNotificationAPI(g *echo.Group, svc *notification.Service, gt *gate.Gate) {
	api := notificationApi{svc: svc, gate: gt}

	ng := g.Group("/notifications")
	ng.GET("", api.query)
	ng.POST("", api.create)
	ng.GET("/unread-count", api.unreadCount)
	ng.PATCH("/read-all", api.markAllRead)
	ng.PATCH("/:id/read", api.markRead)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var filter notification.QueryFilter
	if err = bindQuery(ctx, &filter); err != nil {
		return errors.Wrap(err, "binding to notification.QueryFilter")
	}

	notifs, err := api.svc.Query(ctx.Request().Context(), p.UserID, filter)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ok(ctx, notifs)
}

// create notifies a single user directly; admins only.
func (api *notificationApi) create(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data notification.NewNotification
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotification")
	}
	if err = api.gate.ValidateStruct(&data); err != nil {
		return err
	}
	if err = api.gate.AuthorizeRole(p, auth.OpCreateNotification); err != nil {
		return err
	}

	notif, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating notification")
	}
	return created(ctx, notif)
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	count, err := api.svc.UnreadCount(ctx.Request().Context(), p.UserID)
	if err != nil {
		return errors.Wrap(err, "counting unread notifications")
	}
	return ok(ctx, countResponse{Count: count})
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	notif, err := api.svc.MarkRead(ctx.Request().Context(), p.UserID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return ok(ctx, notif)
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.MarkAllRead(ctx.Request().Context(), p.UserID)
	if err != nil {
		return errors.Wrap(err, "marking all notifications read")
	}
	return ok(ctx, updatedResponse{Updated: n})
}
