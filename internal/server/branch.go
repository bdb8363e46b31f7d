package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	"go.uber.org/zap"
)

type branchRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) ListBranches(c *gin.Context) {
	branches, err := s.branchSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": branches})
}

func (s *Server) CreateBranch(c *gin.Context) {
	var req branchRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	branch, err := s.branchSvc.Create(c.Request.Context(), branchdomain.CreateBranchRequest{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": branch})
}

func (s *Server) UpdateBranch(c *gin.Context) {
	var req branchRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	branch, err := s.branchSvc.Update(c.Request.Context(), c.Param("id"), branchdomain.UpdateBranchRequest{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": branch})
}

func (s *Server) DeleteBranch(c *gin.Context) {
	if err := s.branchSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HealthDB reports whether the record store answers a trivial query.
func (s *Server) HealthDB(c *gin.Context) {
	count, err := s.branchSvc.Count(c.Request.Context())
	if err != nil {
		s.log.Warn("database health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok", "branches": count})
}
