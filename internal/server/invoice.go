package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	"go.uber.org/zap"
)

// SearchInvoices returns at most 100 invoices, most recent first, filtered by
// branch and a free-text query.
func (s *Server) SearchInvoices(c *gin.Context) {
	var query struct {
		BranchID string `form:"branch_id"`
		Q        string `form:"q"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	views, err := s.invoiceSvc.Search(c.Request.Context(), invoicedomain.SearchRequest{
		BranchID: strings.TrimSpace(query.BranchID),
		Query:    query.Q,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fromViews(views)})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	view, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fromView(view)})
}

// CreateInvoices stores one invoice, or a monthly series of them when
// repetitions is greater than one. The whole series is stored or none of it.
func (s *Server) CreateInvoices(c *gin.Context) {
	var req createInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		InvoiceInput: req.toInput(),
		Repetitions:  req.Repetitions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	actor, _ := actorFromContext(c)
	s.log.Info("invoices created",
		zap.Int("count", resp.Count),
		zap.String("created_by", actor.Username),
	)
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"invoices": fromViews(resp.Invoices),
		"count":    resp.Count,
	}})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req invoiceRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.invoiceSvc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fromView(view)})
}

func (s *Server) SetInvoiceStatus(c *gin.Context) {
	var req setStatusRequest
	if err := bindJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.invoiceSvc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fromInvoice(invoice)})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetInvoiceProtheusText(c *gin.Context) {
	text, err := s.invoiceSvc.ProtheusText(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"text": text}})
}

func (s *Server) GroupedInvoices(c *gin.Context) {
	req, err := groupedRequestFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	grouped, err := s.invoiceSvc.Grouped(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fromGrouped(grouped)})
}

func groupedRequestFromQuery(c *gin.Context) (invoicedomain.GroupedRequest, error) {
	month, err := parseOptionalInt(c.Query("month"), "month")
	if err != nil {
		return invoicedomain.GroupedRequest{}, err
	}
	year, err := parseOptionalInt(c.Query("year"), "year")
	if err != nil {
		return invoicedomain.GroupedRequest{}, err
	}
	return invoicedomain.GroupedRequest{
		BranchID: strings.TrimSpace(c.Query("branch_id")),
		Month:    month,
		Year:     year,
	}, nil
}
