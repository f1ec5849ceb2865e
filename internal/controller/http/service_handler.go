package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Root godoc
// @Summary      Service banner
// @Tags         service
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func Root(c *gin.Context) {
	c.String(http.StatusOK, "StackVault Server is Running")
}

// Health godoc
// @Summary      Liveness check
// @Tags         service
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ping godoc
// @Summary      Backend smoke test
// @Tags         service
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /test [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Backend is working!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  "postgres",
	})
}
