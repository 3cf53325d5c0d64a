package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LandingHandler answers the post-login destinations. Each reports which view
// the caller reached and as whom.
type LandingHandler struct{}

func NewLandingHandler() *LandingHandler {
	return &LandingHandler{}
}

func (h *LandingHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"view": "home"})
}

func (h *LandingHandler) Admin(c echo.Context) error {
	return h.view(c, "admin")
}

func (h *LandingHandler) User(c echo.Context) error {
	return h.view(c, "user")
}

func (h *LandingHandler) view(c echo.Context, name string) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, landingResponse{View: name, Principal: toPrincipalResponse(*p)})
}
