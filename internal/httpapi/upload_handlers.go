package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grubz/internal/storage"
)

const maxUploadBytes = 8 << 20

// handleUpload accepts a multipart image. Small files come back as inline
// data URLs; larger ones go to the blob store and come back as a download
// URL. That is the same fallback chain clients use for menu and avatar
// images.
func (s *Server) handleUpload(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file field is required")
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large", "code": "too_large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		writeError(c, err)
		return
	}
	if int64(len(data)) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large", "code": "too_large"})
		return
	}

	if s.blobs.CanInline(int64(len(data))) {
		url := s.blobs.InlineURL(fh.Header.Get("Content-Type"), data)
		c.JSON(http.StatusCreated, gin.H{"url": url, "inline": true})
		return
	}

	folder := c.DefaultPostForm("folder", "images")
	path, err := s.blobs.Save(folder, fh.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": s.blobs.URL(path), "path": path, "inline": false})
}

func (s *Server) handleDownload(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	data, err := s.blobs.Open(path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found", "code": "not_found"})
			return
		}
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
