package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/buildinfo"
	"github.com/matzehuels/imgaug/pkg/dataset"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/pipeline"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

type operatorsResponse struct {
	Operators []augment.Info `json:"operators"`
}

func (s *Server) handleOperators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, operatorsResponse{Operators: augment.All()})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q := r.URL.Query()

	var params augment.Params
	if raw := q.Get("params"); raw != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&params); err != nil {
			writeError(w, r, errors.Wrap(errors.ErrCodeInvalidParams, err, "invalid params"))
			return
		}
	}
	op, err := augment.New(name, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	seed := pipeline.DefaultSeed
	if raw := q.Get("seed"); raw != "" {
		if seed, err = strconv.ParseUint(raw, 10, 64); err != nil {
			writeError(w, r, errors.New(errors.ErrCodeInvalidParams, "invalid seed %q", raw))
			return
		}
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, errTooLarge(tooLarge.Limit))
			return
		}
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(data) == 0 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request body is empty"))
		return
	}

	format, err := outputFormat(q.Get("format"), data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, cached, err := s.runner.ApplyBytes(r.Context(), data, op, seed, format, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", dataset.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Header().Set(HeaderSeed, strconv.FormatUint(seed, 10))
	if cached {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.Warn("write response", "error", err, "request_id", RequestID(r.Context()))
	}
}

// outputFormat resolves the requested format, falling back to the input's
// own format and then to PNG for inputs that cannot be encoded (webp).
func outputFormat(requested string, data []byte) (imaging.Format, error) {
	if requested != "" {
		return dataset.ParseFormat(requested)
	}
	sniffed, err := dataset.SniffFormat(data)
	if err != nil {
		return 0, err
	}
	if f, err := dataset.ParseFormat(sniffed); err == nil {
		return f, nil
	}
	return imaging.PNG, nil
}
