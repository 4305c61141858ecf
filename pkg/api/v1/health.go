package apiv1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/beam-cloud/mailchat/pkg/common"
)

type HealthGroup struct {
	redisClient *common.RedisClient
	routerGroup *echo.Group
}

// NewHealthGroup registers the health check. The Redis client is nil in
// local mode and the check degrades to a liveness probe.
func NewHealthGroup(g *echo.Group, rdb *common.RedisClient) *HealthGroup {
	group := &HealthGroup{routerGroup: g, redisClient: rdb}

	g.GET("", group.HealthCheck)

	return group
}

func (h *HealthGroup) HealthCheck(c echo.Context) error {
	if h.redisClient != nil {
		if err := h.redisClient.Ping(c.Request().Context()).Err(); err != nil {
			log.Error().Err(err).Msg("health check failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"status": "not ok",
				"error":  err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
