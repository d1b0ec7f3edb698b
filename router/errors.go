package router

import (
	"net/http"

	"github.com/zoobzio/veil"
)

// ErrorBody is the response body written for failed calls.
type ErrorBody struct {
	XMLName struct{} `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"error"`
	Status  int      `json:"status" yaml:"status" msgpack:"status" bson:"status" xml:"status"`
	Error   string   `json:"error" yaml:"error" msgpack:"error" bson:"error" xml:"message"`
}

// writeError writes err with status. Server errors never expose their cause.
func (s *Server) writeError(w http.ResponseWriter, c veil.Codec, status int, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}

	data, mErr := c.Marshal(&ErrorBody{Status: status, Error: msg})
	if mErr != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", c.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
