package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
)

func (s *Server) ListSuppliers(c *gin.Context) {
	suppliers, err := s.supplierSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": suppliers})
}

// GetSupplierByID returns the supplier with its invoice defaults so a new
// invoice form can be prefilled.
func (s *Server) GetSupplierByID(c *gin.Context) {
	supplier, err := s.supplierSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": supplier})
}

func (s *Server) CreateSupplier(c *gin.Context) {
	var req supplierdomain.SupplierRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	supplier, err := s.supplierSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": supplier})
}

func (s *Server) UpdateSupplier(c *gin.Context) {
	var req supplierdomain.SupplierRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	supplier, err := s.supplierSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": supplier})
}

func (s *Server) DeleteSupplier(c *gin.Context) {
	if err := s.supplierSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
