// Package host exposes a local REST control surface over an in-process
// keyboard.Keyboard, so the driver can be operated without writing Go.
package host

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	psutil "github.com/shirou/gopsutil/v3/cpu"
	psmem "github.com/shirou/gopsutil/v3/mem"

	"ledkbd/internal/driver/color"
	"ledkbd/internal/driver/keys"
)

// KeyboardAPI is the subset of keyboard.Keyboard the REST surface calls.
type KeyboardAPI interface {
	SetColor(kc color.KeyColor) error
	SetKeyColors(colors []color.KeyColor) error
	SetAllColors(c color.Color) error
}

// Server wraps an http.Server around the control router, with the usual
// goroutine-hosted ListenAndServe plus a timed graceful Shutdown.
type Server struct {
	httpServer *http.Server
	startTime  time.Time
}

// colorRequest is one entry of a POST /colors body: a key identified by
// category name and wire code, and the color to set it to.
type colorRequest struct {
	Category string `json:"category"`
	Code     uint8  `json:"code"`
	R        uint8  `json:"r"`
	G        uint8  `json:"g"`
	B        uint8  `json:"b"`
}

type allColorsRequest struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func categoryByName(name string) (keys.Category, bool) {
	switch name {
	case "standard":
		return keys.Standard, true
	case "gaming":
		return keys.Gaming, true
	case "logo":
		return keys.Logo, true
	default:
		return 0, false
	}
}

// NewRouter builds the gin engine wired to kb: POST /colors,
// POST /colors/all, GET /status.
func NewRouter(kb KeyboardAPI, startTime time.Time) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/colors", func(c *gin.Context) {
		var reqs []colorRequest
		if err := c.ShouldBindJSON(&reqs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		colors := make([]color.KeyColor, 0, len(reqs))
		for _, r := range reqs {
			cat, ok := categoryByName(r.Category)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown category %q", r.Category)})
				return
			}
			colors = append(colors, color.KeyColor{
				Key:   keys.Key{Category: cat, Code: r.Code},
				Color: color.Color{R: r.R, G: r.G, B: r.B},
			})
		}
		if err := kb.SetKeyColors(colors); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "colors set"})
	})

	router.POST("/colors/all", func(c *gin.Context) {
		var req allColorsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := kb.SetAllColors(color.Color{R: req.R, G: req.G, B: req.B}); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "all colors set"})
	})

	router.GET("/status", func(c *gin.Context) {
		cpuPercent, _ := psutil.Percent(0, false)
		memInfo, _ := psmem.VirtualMemory()

		resp := gin.H{
			"uptime": time.Since(startTime).String(),
		}
		if len(cpuPercent) > 0 {
			resp["cpu_percent"] = cpuPercent[0]
		}
		if memInfo != nil {
			resp["mem_used_percent"] = memInfo.UsedPercent
		}
		c.JSON(http.StatusOK, resp)
	})

	return router
}

// NewServer wraps an http.Server for addr around kb's router.
func NewServer(kb KeyboardAPI, addr string) *Server {
	startTime := time.Now()
	return &Server{
		httpServer: &http.Server{Addr: addr, Handler: NewRouter(kb, startTime)},
		startTime:  startTime,
	}
}

// ListenAndServe starts serving; it blocks until Shutdown is called or a
// fatal listener error occurs.
func (s *Server) ListenAndServe() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server within the given timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
