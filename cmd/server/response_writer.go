package main

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
)

type ginResponseWriter struct {
	c *gin.Context
}

var _ imgrequest.ResponseWriter = (*ginResponseWriter)(nil)

func (w *ginResponseWriter) WriteOK(contentType string, lastModified time.Time, body io.Reader) error {
	header := w.c.Writer.Header()
	header.Set("Content-Type", contentType)
	if !lastModified.IsZero() {
		header.Set("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	}

	w.c.Status(http.StatusOK)
	_, err := io.Copy(w.c.Writer, body)
	return err
}

func (w *ginResponseWriter) WriteError(code int, message string) {
	w.c.String(code, message)
}
