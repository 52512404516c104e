package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/codec"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/outfit"
	"github.com/matzehuels/dressup/pkg/pipeline"
	"github.com/matzehuels/dressup/pkg/render/sink"
)

// outfitRequest selects an outfit. Selection entries are applied on top of
// Code; values are item urls or labels, "none" clears an optional category.
type outfitRequest struct {
	Code       *codec.Code       `json:"code,omitempty"`
	Selection  map[string]string `json:"selection,omitempty"`
	Background string            `json:"background,omitempty"`
}

type categoryResponse struct {
	Name     catalog.Category    `json:"name"`
	Required bool                `json:"required"`
	Items    []catalog.AssetItem `json:"items"`
}

type catalogResponse struct {
	Categories []categoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

type codeResponse struct {
	Code      codec.Code                  `json:"code"`
	Selection outfit.Selection            `json:"selection"`
	Fields    map[catalog.Category]uint32 `json:"fields,omitempty"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong\n"))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.cfg.Catalog
	resp := catalogResponse{Total: cat.Total()}
	for _, k := range catalog.Categories {
		items := cat.Items(k)
		if items == nil {
			items = []catalog.AssetItem{}
		}
		resp.Categories = append(resp.Categories, categoryResponse{Name: k, Required: k.Required(), Items: items})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	sel, err := s.selection(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, codeResponse{Code: codec.Encode(sel, s.cfg.Catalog), Selection: sel})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	code, err := codec.Parse(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, codeResponse{
		Code:      code,
		Selection: codec.Decode(code, s.cfg.Catalog),
		Fields:    codec.Fields(code),
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	_, res, _, ok := s.plan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatPNG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	planner, res, req, ok := s.plan(w, r)
	if !ok {
		return
	}
	var opts []sink.Option
	if req.Background != "" {
		bg, err := sink.ParseColor(req.Background)
		if err != nil {
			writeError(w, err)
			return
		}
		opts = append(opts, sink.WithBackground(bg))
	}

	data, err := planner.Session().Render(r.Context(), res, format, opts...)
	if err != nil {
		writeError(w, err)
		return
	}

	contentType := "image/png"
	if format == pipeline.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Dressup-Code", strconv.FormatUint(uint64(res.Code), 10))
	w.Header().Set("X-Dressup-Generation", strconv.FormatUint(res.Generation, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// plan resolves the request against the caller's session and runs the
// planner. On failure the error response has been written.
func (s *Server) plan(w http.ResponseWriter, r *http.Request) (*pipeline.Planner, *pipeline.Result, outfitRequest, bool) {
	planner, id := s.sessions.get(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, id)

	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, err)
		return nil, nil, req, false
	}
	sel, err := s.selection(req)
	if err != nil {
		writeError(w, err)
		return nil, nil, req, false
	}
	res, err := planner.Plan(r.Context(), sel)
	if err != nil {
		writeError(w, err)
		return nil, nil, req, false
	}
	return planner, res, req, true
}

func (s *Server) selection(req outfitRequest) (outfit.Selection, error) {
	base := make(outfit.Selection)
	if req.Code != nil {
		if *req.Code > codec.MaxCode {
			return nil, errors.New(errors.ErrCodeInvalidCode, "outfit code %d exceeds %d", *req.Code, codec.MaxCode)
		}
		base = codec.Decode(*req.Code, s.cfg.Catalog)
	}
	return base.Apply(s.cfg.Catalog, req.Selection)
}

// decodeRequest reads an optional JSON body. An empty body selects the
// default outfit.
func decodeRequest(w http.ResponseWriter, r *http.Request) (outfitRequest, error) {
	var req outfitRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
		return req, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return req, nil
}
