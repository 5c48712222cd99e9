package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/themxtr/idealab2.1-sub000/internal/fetch"
	"github.com/themxtr/idealab2.1-sub000/internal/quote"
	"github.com/themxtr/idealab2.1-sub000/pkg/analysis"
	"github.com/themxtr/idealab2.1-sub000/pkg/pricing"
)

type analyzeRequest struct {
	FileURL     string `json:"fileUrl"`
	FileName    string `json:"fileName,omitempty"`
	Orientation string `json:"orientation,omitempty"`
}

type dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type volume struct {
	Mm3 float64 `json:"mm3"`
	Cm3 float64 `json:"cm3"`
}

type supportScore struct {
	Overhangs int     `json:"overhangs"`
	Wastage   float64 `json:"wastage"`
}

type supportResponse struct {
	Orientation string       `json:"orientation"`
	Wastage     float64      `json:"wastage"`
	Vertical    supportScore `json:"vertical"`
	Flat        supportScore `json:"flat"`
	Recommended string       `json:"recommended"`
}

type analyzeResponse struct {
	Success         bool             `json:"success"`
	FileName        string           `json:"fileName,omitempty"`
	Format          string           `json:"format"`
	Triangles       int              `json:"triangles"`
	Dimensions      dimensions       `json:"dimensions"`
	Volume          volume           `json:"volume"`
	WeightGrams     float64          `json:"weightGrams"`
	CostStudent     float64          `json:"costStudent"`
	CostGuest       float64          `json:"costGuest"`
	Degraded        bool             `json:"degraded,omitempty"`
	FallbackApplied bool             `json:"fallbackApplied,omitempty"`
	Support         *supportResponse `json:"support,omitempty"`
	QuoteID         string           `json:"quoteId,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 2*s.maxBody())).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.FileURL) == "" {
		writeError(w, http.StatusBadRequest, "fileUrl is required")
		return
	}
	if req.Orientation != "" {
		if _, err := analysis.ParseOrientation(req.Orientation); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid orientation")
			return
		}
	}

	payload, err := s.deps.Fetcher.Fetch(r.Context(), req.FileURL)
	if err != nil {
		s.fetchFailed(w, req.FileURL, err)
		return
	}

	res, err := s.deps.Quotes.Quote(r.Context(), payload.Data, payload.Format, req.Orientation)
	if err != nil {
		s.logger.Warn("model analysis failed",
			zap.String("format", string(payload.Format)),
			zap.Error(err),
		)
		writeInternal(w, "Failed to analyze model", err)
		return
	}

	resp := newAnalyzeResponse(req.FileName, res)
	if s.deps.Store != nil {
		rec := res.Record(req.FileName)
		if err := s.deps.Store.Save(r.Context(), rec); err != nil {
			// The quote is still valid without a ledger entry.
			s.logger.Error("failed to record quote", zap.Error(err))
		} else {
			resp.QuoteID = rec.ID
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// fetchFailed maps a fetch error onto a 4xx response.
func (s *Server) fetchFailed(w http.ResponseWriter, fileURL string, err error) {
	scheme := "data"
	if i := strings.Index(fileURL, ":"); i > 0 {
		scheme = strings.ToLower(fileURL[:i])
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordFetchError(scheme)
	}
	s.logger.Warn("model fetch failed", zap.String("scheme", scheme), zap.Error(err))

	var fe *fetch.FetchError
	switch {
	case errors.As(err, &fe):
		writeError(w, http.StatusBadRequest, "Failed to fetch file from URL")
	case errors.Is(err, fetch.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "Unsupported file format")
	case errors.Is(err, fetch.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, fetch.ErrS3Disabled):
		writeError(w, http.StatusBadRequest, "S3 sources are not enabled")
	default:
		writeError(w, http.StatusBadRequest, "Invalid file URL")
	}
}

func newAnalyzeResponse(fileName string, res *quote.Result) analyzeResponse {
	dims := res.Dimensions()
	price := res.Price.Rounded()

	resp := analyzeResponse{
		Success:   true,
		FileName:  fileName,
		Format:    string(res.Report.Format),
		Triangles: res.Triangles,
		Dimensions: dimensions{
			Width:  pricing.Round2(dims.X),
			Height: pricing.Round2(dims.Y),
			Depth:  pricing.Round2(dims.Z),
		},
		Volume:          volume{Mm3: price.VolumeMm3, Cm3: price.VolumeCm3},
		WeightGrams:     price.WeightGrams,
		CostStudent:     price.CostStudent,
		CostGuest:       price.CostGuest,
		Degraded:        res.Report.Degraded,
		FallbackApplied: res.FallbackApplied,
	}

	if sup := res.Support; sup != nil {
		resp.Support = &supportResponse{
			Orientation: string(sup.Used.Orientation),
			Wastage:     pricing.Round2(sup.Used.Wastage),
			Vertical:    supportScore{Overhangs: sup.Choice.Vertical.Overhangs, Wastage: pricing.Round2(sup.Choice.Vertical.Wastage)},
			Flat:        supportScore{Overhangs: sup.Choice.Flat.Overhangs, Wastage: pricing.Round2(sup.Choice.Flat.Wastage)},
			Recommended: string(sup.Choice.Recommended),
		}
	}
	return resp
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	Format   string `json:"format"`
	Size     int    `json:"size"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Empty upload")
		return
	}

	format, err := analysis.SniffFormat(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported file format")
		return
	}

	name := r.Header.Get("X-File-Name")
	if name == "" {
		name = r.URL.Query().Get("name")
	}
	if name == "" {
		name = "model.stl"
		if format == analysis.FormatGLB {
			name = "model.glb"
		}
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		FileName: name,
		FileURL:  fetch.EncodeDataURL(format, data),
		Format:   string(format),
		Size:     len(data),
	})
}

func (s *Server) maxBody() int64 {
	if s.opts.MaxUploadBytes > 0 {
		return s.opts.MaxUploadBytes
	}
	return 50 << 20
}
