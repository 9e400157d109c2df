package apiserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"hotels-sync/internal/tablets"
	"hotels-sync/internal/tabletsync"
)

var errInvalidArgument = errors.New("invalid argument")

/* Common */
type HttpErrResponse struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	ErrorText      string `json:"error"`
	Status         string `json:"status"`
}

func (e *HttpErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func (s *ApiServer) httpErrNotFound(err error) render.Renderer {
	return &HttpErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		ErrorText:      "Not Found",
		Status:         "NotFound",
	}
}

func (s *ApiServer) httpErrPermissionDenied(err error) render.Renderer {
	return &HttpErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		ErrorText:      "Permission Denied",
		Status:         "PermissionDenied",
	}
}

func (s *ApiServer) httpErrUnexpected(err error) render.Renderer {
	return &HttpErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorText:      "Internal Server Error",
		Status:         "Error",
	}
}

func (s *ApiServer) httpErrInvalidRequest(err error) render.Renderer {
	return &HttpErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		ErrorText:      "Invalid Request",
		Status:         "InvalidArgument",
	}
}

// httpErrFrom maps a domain error to its HTTP response
func (s *ApiServer) httpErrFrom(err error) render.Renderer {
	switch {
	case errors.Is(err, tablets.ErrNotFound), errors.Is(err, tabletsync.ErrNotFound):
		return s.httpErrNotFound(err)
	case errors.Is(err, tablets.ErrPermissionDenied):
		return s.httpErrPermissionDenied(err)
	case errors.Is(err, errInvalidArgument):
		return s.httpErrInvalidRequest(err)
	default:
		return s.httpErrUnexpected(err)
	}
}
