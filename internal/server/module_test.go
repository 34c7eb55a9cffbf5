package server

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavolohq/tavolo/internal/clock"
	"github.com/tavolohq/tavolo/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Builds the full module graph the way main does and checks the API surface
// actually ends up on the engine, not just on a hand-assembled server.
func TestModuleRegistersAPIRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	var srv *Server
	app := fx.New(
		fx.NopLogger,
		fx.Supply(config.Config{AppName: "tavolo-test", HTTPAddr: ":0"}),
		fx.Provide(
			zap.NewNop,
			func() (*snowflake.Node, error) { return snowflake.NewNode(9) },
			clock.NewSystemClock,
			func() *config.PolicyHolder {
				return config.NewStaticPolicyHolder(config.DefaultInventoryPolicy())
			},
			func() *gorm.DB { return db },
		),
		Module,
		fx.Populate(&srv),
	)
	require.NoError(t, app.Err())
	require.NotNil(t, srv)

	registered := map[string]bool{}
	for _, route := range srv.Engine().Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"GET /api/inventory",
		"GET /api/inventory/low-stock",
		"GET /api/inventory/:id",
		"GET /api/inventory/:id/logs",
		"POST /api/inventory",
		"DELETE /api/inventory/:id",
		"PATCH /api/inventory/:id/increase",
		"PATCH /api/inventory/:id/decrease",
		"PATCH /api/inventory/:id/adjust",
		"GET /api/audit-logs",
	} {
		assert.True(t, registered[want], "route %s not registered", want)
	}
}
