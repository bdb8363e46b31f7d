package server

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/payables/internal/report"
)

func (s *Server) competenciaReport(format report.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := groupedRequestFromQuery(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		doc, err := s.reports.Competencia(c.Request.Context(), req, format)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
		c.Data(http.StatusOK, doc.ContentType, doc.Body)
	}
}
