package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/talkincode/gopos/internal/app"
	"go.uber.org/zap"
)

const appContextKey = "gopos_appctx"

var (
	server   *echo.Echo
	apiGroup *echo.Group
	appRef   app.AppContext
)

// Init builds the echo server: json-iterator serializer, panic
// recovery, zap request logging, and an /api group that carries the
// application context for handlers.
func Init(a app.AppContext) {
	appRef = a
	server = echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.JSONSerializer = jsonSerializer{}
	server.Use(middleware.Recover())
	server.Use(requestLogger)

	apiGroup = server.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, a)
			return next(c)
		}
	})
}

// GetApp returns the application context injected into the request.
func GetApp(c echo.Context) app.AppContext {
	if v, ok := c.Get(appContextKey).(app.AppContext); ok {
		return v
	}
	return appRef
}

func ApiGET(path string, h echo.HandlerFunc)    { apiGroup.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { apiGroup.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { apiGroup.PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { apiGroup.DELETE(path, h) }

// Listen blocks serving HTTP until the server is shut down.
func Listen() error {
	cfg := appRef.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.L().Info("webserver: listening", zap.String("addr", addr))
	err := server.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		zap.L().Debug("webserver: request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}

// jsonSerializer swaps echo's encoding/json for json-iterator.
type jsonSerializer struct{}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsonAPI.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsonAPI.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}
