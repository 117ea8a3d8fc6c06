package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/onramp-pay/onramp"
	"github.com/onramp-pay/onramp/api/middleware"
	"github.com/onramp-pay/onramp/config"
	"github.com/onramp-pay/onramp/internal/apierror"
)

type Api struct {
	onramp *onramp.Onramp
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/accounts", a.CreateGatewayAccount)
	router.GET("/accounts/:id", a.GetGatewayAccount)
	router.PUT("/accounts/:id", a.UpdateGatewayAccount)

	router.POST("/accounts/:id/credentials", a.CreateCredential)
	router.GET("/accounts/:id/credentials", a.GetCredentials)
	router.GET("/accounts/:id/credentials/:credential_id", a.GetCredential)
	router.GET("/accounts/:id/credentials/:credential_id/tasks", a.GetTasks)
	router.POST("/accounts/:id/credentials/:credential_id/tasks", a.UpdateTaskData)
	router.POST("/accounts/:id/credentials/:credential_id/activate", a.ActivateCredential)

	router.POST("/accounts/:id/switch", a.StartSwitch)
	router.GET("/accounts/:id/switch/tasks", a.GetSwitchTasks)
	router.POST("/accounts/:id/switch/verification-payment", a.RecordVerificationPayment)
	router.POST("/accounts/:id/switch/finalize", a.FinalizeSwitch)

	return a.router
}

func NewAPI(o *onramp.Onramp) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.Otel.Enabled {
		r.Use(otelgin.Middleware("onramp-api"))
	}
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{onramp: o, router: r}
}

// respondError writes a service error with the HTTP status its error code
// maps to. Details, when present, give the portal field-level context.
func respondError(c *gin.Context, err error) {
	status := apierror.MapErrorToHTTPStatus(err)
	var apiErr apierror.APIError
	if errors.As(err, &apiErr) {
		body := gin.H{"error": apiErr.Message, "code": apiErr.Code}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
		c.JSON(status, body)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
