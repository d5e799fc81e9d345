package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
)

const msgInvalidInput = "invalid input"

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		body := errorBody{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			body.StatusCode = origErr.Code
			body.Message = fmt.Sprint(origErr.Message)
		case validator.ValidationErrors:
			body.Fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				body.Fields[fieldPath(vErr)] = vErr.Translate(translator)
			}
			body.StatusCode = http.StatusBadRequest
			body.Message = msgInvalidInput
		case *core.ValidationError:
			if len(origErr.Fields) > 0 {
				body.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					body.Fields[fErr.Field] = fErr.Error
				}
			}
			body.StatusCode = http.StatusBadRequest
			body.Message = msgInvalidInput
			if origErr.Err != nil {
				body.Message = origErr.Err.Error()
			}
		case *core.UnauthenticatedError:
			body.StatusCode = http.StatusUnauthorized
			body.Message = origErr.Error()
		case *core.ForbiddenError:
			body.StatusCode = http.StatusForbidden
			body.Message = origErr.Error()
		case *core.NotFoundError:
			body.StatusCode = http.StatusNotFound
			body.Message = origErr.Error()
		case *core.ConflictError:
			body.StatusCode = http.StatusConflict
			body.Message = origErr.Message()
		default: // any other error is a server error
			msg := http.StatusText(http.StatusInternalServerError)
			body.StatusCode = http.StatusInternalServerError
			body.Message = msg

			if p, pErr := getPrincipal(ctx); pErr == nil {
				logger.Error(msg, errors.Wrap(err, msg), p)
			} else {
				logger.Error(msg, errors.Wrap(err, msg))
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && body.StatusCode == http.StatusInternalServerError {
			body.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(body.StatusCode)
			} else {
				err = ctx.JSON(body.StatusCode, envelope{Error: &body})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// fieldPath keeps the position of a field inside slices (eg. marks[1].marks_obtained)
// and drops the name of the top level struct.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return ns[i+1:]
		}
	}
	return fe.Field()
}
