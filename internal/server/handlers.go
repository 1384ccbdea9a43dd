package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/albumposter/pkg/album"
	"github.com/matzehuels/albumposter/pkg/buildinfo"
	apperrors "github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/pipeline"
	"github.com/matzehuels/albumposter/pkg/poster/sink"
)

const cacheHeader = "X-Cache"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, buildinfo.Get())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), req, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Poster)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "poster."+res.Format.Ext()))
	w.Header().Set(cacheHeader, hitOrMiss(res.CacheInfo.PosterHit))
	w.Write(res.Poster)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Layout(r.Context(), req, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := sink.RenderJSON(res.Layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(cacheHeader, hitOrMiss(res.CacheInfo.LayoutHit))
	w.Write(data)
}

// decode reads the album request from the body and the options from the
// query string.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (album.Request, pipeline.Options, error) {
	var opts pipeline.Options
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = string(s.defaultFormat)
	}
	f, err := sink.ParseFormat(format)
	if err != nil {
		return album.Request{}, opts, err
	}
	opts.Format = f

	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return album.Request{}, opts, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid refresh value %q", v)
		}
		opts.Refresh = refresh
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return album.Request{}, opts, fmt.Errorf("read body: %w", err)
	}
	req, err := album.Decode(data)
	return req, opts, err
}

// writeError answers with the status for err. Client errors carry their
// message; server errors are logged and answered generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	msg := apperrors.UserMessage(err)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		msg = fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
		if apperrors.GetCode(err) == "" {
			msg = http.StatusText(status)
		}
	} else {
		s.logger.Debug("request rejected", "status", status, "error", err)
	}
	http.Error(w, msg, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func hitOrMiss(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
