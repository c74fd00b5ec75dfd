package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/inkwell-api/inkwell/internal/logger/adapter/fiber"
	"github.com/inkwell-api/inkwell/internal/logger"
)

type accessLine struct {
	Status int     `json:"status"`
	URI    string  `json:"URI"`
	Method string  `json:"method"`
	UserID uint64  `json:"user_id"`
	Error  string  `json:"error"`
	Perf   float64 `json:"X-Performance"`
}

func newApp(buf *bytes.Buffer, cfg logger.Log) *fiber.App {
	app := fiber.New()

	app.Use(adapter.New(adapter.Config{
		Config:        cfg,
		CheckAliveURI: "/checkalive",
		Output:        buf,
		UserID: func(c *fiber.Ctx) uint64 {
			if c.Get("X-Test-User") != "" {
				return 7
			}

			return 0
		},
	}))

	app.Get("/checkalive", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/articles", func(c *fiber.Ctx) error { return c.SendString("[]") })
	app.Get("/boom", func(_ *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		header     bool
		disableCA  bool
		wantLine   bool
		wantStatus int
		wantUser   uint64
		wantErr    bool
	}{
		{name: "plain request", target: "/articles?search=go", wantLine: true, wantStatus: http.StatusOK},
		{name: "principal is logged", target: "/articles", header: true, wantLine: true, wantStatus: http.StatusOK, wantUser: 7},
		{name: "error goes through error handler", target: "/boom", wantLine: true, wantStatus: http.StatusTeapot, wantErr: true},
		{name: "checkalive logged by default", target: "/checkalive", wantLine: true, wantStatus: http.StatusOK},
		{name: "checkalive suppressed", target: "/checkalive", disableCA: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			app := newApp(&buf, logger.Log{DisableCheckAlive: tt.disableCA})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header {
				req.Header.Set("X-Test-User", "1")
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer func() {
				_ = resp.Body.Close()
			}()

			if !tt.wantLine {
				assert.Empty(t, buf.String())
				return
			}

			var line accessLine
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))

			assert.Equal(t, tt.wantStatus, line.Status)
			assert.Equal(t, tt.target, line.URI)
			assert.Equal(t, http.MethodGet, line.Method)
			assert.Equal(t, tt.wantUser, line.UserID)
			assert.Equal(t, tt.wantErr, line.Error != "")
		})
	}
}
