package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type (
	// envelope is the shape of every API response.
	envelope struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data,omitempty"`
		Error   *errorBody  `json:"error,omitempty"`
	}

	errorBody struct {
		Message    string            `json:"message"`
		StatusCode int               `json:"statusCode"`
		Fields     map[string]string `json:"fields,omitempty"`
	}

	countResponse struct {
		Count int `json:"count"`
	}

	updatedResponse struct {
		Updated int64 `json:"updated"`
	}
)

func ok(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func created(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func bindQuery(ctx echo.Context, dest interface{}) error {
	return (&echo.DefaultBinder{}).BindQueryParams(ctx, dest)
}
