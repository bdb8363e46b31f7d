package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SeedDemoData inserts the demo branches and suppliers. It is only routed
// outside production.
func (s *Server) SeedDemoData(c *gin.Context) {
	if s.cfg.IsProduction() {
		AbortWithError(c, ErrNotFound)
		return
	}

	result, err := s.seeder.DemoData(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.log.Info("demo data seeded",
		zap.Int("branches", result.Branches),
		zap.Int("suppliers", result.Suppliers),
	)
	c.JSON(http.StatusOK, gin.H{"data": result})
}
