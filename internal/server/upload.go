package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"frscan/internal/util/jsonutil"
)

func (s *Server) handleScanUpload(c *gin.Context) {
	limit := s.opts.MaxUploadBytes
	if limit > 0 {
		if c.Request.ContentLength > limit {
			s.tooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			s.tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": `multipart field "file" is required`})
		return
	}

	if err := os.MkdirAll(s.opts.UploadDir, 0o755); err != nil {
		s.fail(c, err)
		return
	}
	dir, err := os.MkdirTemp(s.opts.UploadDir, "upload-")
	if err != nil {
		s.fail(c, err)
		return
	}
	defer os.RemoveAll(dir)

	dst := filepath.Join(dir, uploadName(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		s.fail(c, err)
		return
	}

	records, err := s.analyzer.Scan(c.Request.Context(), dst)
	if err != nil {
		s.fail(c, err)
		return
	}
	body, err := jsonutil.MarshalNoEscape(records)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *Server) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"detail": fmt.Sprintf("upload exceeds %d bytes", s.opts.MaxUploadBytes),
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error("scan failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Scan failed: " + err.Error()})
}

// uploadName keeps only the base name of a client-supplied filename.
func uploadName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case "", ".", "/", "..":
		return "upload"
	}
	return name
}
