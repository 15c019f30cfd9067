package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jt828/hello-observability/internal/constant"
	"github.com/jt828/hello-observability/internal/controller"
	"github.com/jt828/hello-observability/internal/middleware"
	"github.com/jt828/hello-observability/internal/telemetry"
	"github.com/jt828/hello-observability/pkg/observability"
	"github.com/jt828/hello-observability/pkg/observability/implementation"
	"github.com/jt828/hello-observability/pkg/snowflake"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Dependencies struct {
	ServiceName     string
	Logger          observability.Logger
	Meter           observability.Meter
	RequestMetrics  *telemetry.RequestMetrics
	RequestIDs      snowflake.Snowflake
	HelloController *controller.HelloController
}

// New builds the HTTP surface. otelgin opens the server span before the
// error middleware runs, so the span carries the final status code.
func New(deps Dependencies) *gin.Engine {
	engine := gin.New()
	engine.Use(
		otelgin.Middleware(deps.ServiceName),
		middleware.ErrorHandler(deps.Logger),
		middleware.RequestID(deps.RequestIDs),
	)

	engine.GET(constant.HelloEndpoint,
		middleware.InFlight(deps.RequestMetrics, constant.HelloEndpoint),
		deps.HelloController.Hello,
	)
	engine.GET(constant.MetricsEndpoint, gin.WrapH(implementation.MetricsHandler(deps.Meter)))
	engine.NoRoute(middleware.NotFound)

	return engine
}
