package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jt828/hello-observability/internal/constant"
	"github.com/jt828/hello-observability/internal/middleware"
	"github.com/jt828/hello-observability/internal/service"
	"github.com/jt828/hello-observability/internal/telemetry"
	"github.com/jt828/hello-observability/pkg/observability"
)

const helloSpanName = "hello"

type HelloResponse struct {
	Message string  `json:"message"`
	Delay   float64 `json:"delay"`
}

type HelloController struct {
	helloService service.HelloService
	metrics      *telemetry.RequestMetrics
	tracer       observability.Tracer
	log          observability.Logger
}

func NewHelloController(
	helloService service.HelloService,
	metrics *telemetry.RequestMetrics,
	tracer observability.Tracer,
	log observability.Logger,
) *HelloController {
	return &HelloController{helloService: helloService, metrics: metrics, tracer: tracer, log: log}
}

// Hello records metrics only after the simulated work completed, so an
// abandoned request leaves the registry untouched.
func (ctrl *HelloController) Hello(c *gin.Context) {
	ctx, span := ctrl.tracer.Start(c.Request.Context(), helloSpanName)

	greeting, err := ctrl.helloService.Hello(ctx)
	if err != nil {
		span.RecordError(err)
		ctrl.endSpan(span)
		_ = c.Error(err)
		return
	}

	ctrl.metrics.Observe(c.Request.Method, constant.HelloEndpoint, http.StatusOK, greeting.Duration)

	ctrl.log.Info(fmt.Sprintf("%s delay=%.3fs duration=%.3fs", constant.HelloEndpoint, greeting.Delay, greeting.Duration))

	ctrl.annotate(span, constant.AttrDelaySeconds, greeting.Delay)
	ctrl.annotate(span, constant.AttrDurationSeconds, greeting.Duration)
	if id := middleware.RequestIDFrom(c); id != "" {
		ctrl.annotate(span, constant.AttrRequestID, id)
	}
	ctrl.endSpan(span)

	c.JSON(http.StatusOK, HelloResponse{Message: greeting.Message, Delay: greeting.Delay})
}

func (ctrl *HelloController) annotate(span observability.Span, key string, value any) {
	if err := span.SetAttribute(key, value); err != nil {
		ctrl.log.Error("span attribute rejected", observability.Err(err), observability.String("span", helloSpanName))
	}
}

func (ctrl *HelloController) endSpan(span observability.Span) {
	if err := span.End(); err != nil {
		ctrl.log.Error("span end rejected", observability.Err(err), observability.String("span", helloSpanName))
	}
}
