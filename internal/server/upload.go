package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/payables/internal/attachment"
)

// UploadAttachment stores an invoice document or payment slip sent as
// multipart/form-data. The form carries the file plus the supplier, invoice
// number and due date that make up its storage path.
func (s *Server) UploadAttachment(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: file is required", attachment.ErrInvalidFile))
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", attachment.ErrInvalidFile, err))
		return
	}
	defer file.Close()

	result, err := s.attachments.Upload(c.Request.Context(), attachment.UploadRequest{
		Supplier:    c.PostForm("supplier"),
		Number:      c.PostForm("number"),
		DueDate:     c.PostForm("due_date"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": result})
}
