package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/LArkema/dctransistor-project/internal/http/handlers"
	"github.com/LArkema/dctransistor-project/internal/http/middleware"
)

// NewRouter builds the trigger server. Middleware order matters: the
// request id must exist before the logger and error handler read it.
func NewRouter(logger *slog.Logger, triggers *handlers.TriggerHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.ErrorHandler(logger),
	)

	triggers.Register(r)
	return r
}
