package presenter

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const activityJSON = "application/activity+json"

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Activity serves a payload with the ActivityPub media type.
func Activity(c echo.Context, payload any) error {
	c.Response().Header().Set(echo.HeaderContentType, activityJSON)
	return c.JSON(http.StatusOK, payload)
}

// Accepted acknowledges an inbox delivery without a body.
func Accepted(c echo.Context) error {
	return c.NoContent(http.StatusAccepted)
}

func BadRequest(c echo.Context, err error) error {
	fmt.Println("Bad request:", err)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	fmt.Println("Bad request:", msg)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// Forbidden marks a permanent rejection, the peer must not retry.
func Forbidden(c echo.Context, err error) error {
	fmt.Println("Forbidden:", err)
	return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
}

func NotFound(c echo.Context, msg string) error {
	fmt.Println("Not found:", msg)
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	fmt.Println("Internal error:", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
