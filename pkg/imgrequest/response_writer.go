package imgrequest

import (
	"bytes"
	"io"
	"time"
)

type ResponseWriter interface {
	WriteOK(contentType string, lastModified time.Time, body io.Reader) error
	WriteError(code int, message string)
}

// bufferedResponse keeps a served image so it can be replayed to many
// writers.
type bufferedResponse struct {
	contentType  string
	lastModified time.Time
	body         []byte
}

var _ ResponseWriter = (*bufferedResponse)(nil)

func (r *bufferedResponse) WriteOK(contentType string, lastModified time.Time, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	r.contentType = contentType
	r.lastModified = lastModified
	r.body = data
	return nil
}

func (r *bufferedResponse) WriteError(code int, message string) {}

func (r *bufferedResponse) replay(w ResponseWriter) error {
	return w.WriteOK(r.contentType, r.lastModified, bytes.NewReader(r.body))
}
