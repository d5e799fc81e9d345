package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
)

var (
	contextPrincipalKey = "principal"

	// errors
	errMissingBearer       = core.NewUnauthenticatedError("missing or malformed bearer token")
	errPrincipalNotInCtx   = core.NewUnauthenticatedError("user not authenticated")
	errNoRoleAssigned      = core.NewForbiddenError("no role assigned to user")
	bearerScheme           = "bearer"
	authorizationHeaderKey = echo.HeaderAuthorization
)

// Verifier checks a bearer token issued by the identity provider.
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// authMiddleware verifies the bearer token then resolves the role of its subject.
// The role is read on every request so that role changes apply immediately.
func authMiddleware(verifier Verifier, oracle *auth.Oracle) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := bearerToken(ctx)
			if err != nil {
				return err
			}
			id, err := verifier.Verify(token)
			if err != nil {
				return err
			}

			p, err := oracle.ResolvePrincipal(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == auth.ErrRoleNotFound {
					return errNoRoleAssigned
				}
				return errors.Wrap(err, "resolving principal")
			}
			ctx.Set(contextPrincipalKey, p)
			return next(ctx)
		}
	}
}

func bearerToken(ctx echo.Context) (string, error) {
	header := ctx.Request().Header.Get(authorizationHeaderKey)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) || strings.TrimSpace(token) == "" {
		return "", errMissingBearer
	}
	return strings.TrimSpace(token), nil
}

func getPrincipal(ctx echo.Context) (auth.Principal, error) {
	if p, ok := ctx.Get(contextPrincipalKey).(auth.Principal); ok {
		return p, nil
	}
	return auth.Principal{}, errPrincipalNotInCtx
}
