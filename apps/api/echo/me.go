package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/user"
)

type (
	meApi struct {
		svc *user.Service
	}

	meResponse struct {
		auth.Principal
		Profile *user.Profile `json:"profile,omitempty"`
	}
)

func registerMeAPI(g *echo.Group, svc *user.Service) {
	api := meApi{svc: svc}
	g.GET("/me", api.retrieve)
	g.PUT("/me/avatar", api.uploadAvatar)
}

func (api *meApi) uploadAvatar(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data user.NewAvatar
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAvatar")
	}

	prof, err := api.svc.UploadAvatar(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "uploading avatar")
	}
	return ok(ctx, prof)
}

// retrieve returns the principal, with its profile when the identity provider has synced one.
func (api *meApi) retrieve(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	resp := meResponse{Principal: p}

	prof, err := api.svc.GetByID(ctx.Request().Context(), p.UserID)
	switch {
	case err == nil:
		resp.Profile = &prof
	case !core.IsNotFound(err):
		return errors.Wrap(err, "getting profile")
	}
	return ok(ctx, resp)
}
