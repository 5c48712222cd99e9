package server

import (
	"encoding/json"
	"net/http"

	"github.com/themxtr/idealab2.1-sub000/pkg/pcb"
)

type pcbResponse struct {
	Success        bool               `json:"success"`
	Specification  pcb.Specification  `json:"specification"`
	Calculations   pcb.Calculations   `json:"calculations"`
	GerberMetadata pcb.GerberMetadata `json:"gerberMetadata"`
}

func (s *Server) handlePCBBuilder(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	catalog := s.deps.Catalog

	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, catalog)
		return
	}

	var spec pcb.Specification
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&spec); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  "Invalid JSON body",
			Errors: []string{err.Error()},
		})
		return
	}

	spec = spec.WithDefaults(catalog)
	if err := pcb.Validate(spec, catalog); err != nil {
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordPCBQuote(false)
		}
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  "Invalid PCB specification",
			Errors: pcb.Messages(err),
		})
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordPCBQuote(true)
	}
	writeJSON(w, http.StatusOK, pcbResponse{
		Success:        true,
		Specification:  spec,
		Calculations:   pcb.Calculate(spec, catalog),
		GerberMetadata: pcb.Metadata(spec, catalog),
	})
}
