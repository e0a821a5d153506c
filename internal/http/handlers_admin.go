package http

import (
	"encoding/json"
	"mime"
	"net/http"

	"incassi/internal/log"
	"incassi/internal/services"
)

const maxUploadBytes = 4 << 20

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

type saveSettingsRequest struct {
	TargetMonthly int64  `json:"target_monthly"`
	BonusAmount   int64  `json:"bonus_amount"`
	BonusTitle    string `json:"bonus_title"`
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req saveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := s.settings.Save(r.Context(), req.TargetMonthly, req.BonusAmount, req.BonusTitle)
	if err != nil {
		s.logger.LogError(r.Context(), "Settings save failed", err,
			log.ComponentHTTP, log.OpUpsert, log.NewFields())
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsJSON(saved))
}

type recordEntryRequest struct {
	Date   string      `json:"date"`
	Amount json.Number `json:"amount"`
}

func (s *Server) handleRecordEntry(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req recordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, amount, err := services.ParseRow(services.RawRow{Date: req.Date, Amount: req.Amount.String()})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.ingestor.RecordEntry(r.Context(), date, amount); err != nil {
		s.logger.LogError(r.Context(), "Record entry failed", err,
			log.ComponentIngest, log.OpUpsert, log.NewFields())
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"date":   date.ISO(),
		"amount": amount.String(),
	})
}

type bulkResultJSON struct {
	Written int              `json:"written"`
	Skipped []skippedRowJSON `json:"skipped"`
}

type skippedRowJSON struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// handleBulkUpload accepts a CSV either as a multipart "file" field or as the
// raw request body.
func (s *Server) handleBulkUpload(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	body := r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()
		body = file
	}

	rows, err := services.ReadCSVRows(body)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := s.ingestor.IngestRows(r.Context(), rows)
	if err != nil {
		s.logger.LogError(r.Context(), "Bulk upload failed", err,
			log.ComponentIngest, log.OpBulk, log.NewFields())
		writeDomainError(w, err)
		return
	}

	resp := bulkResultJSON{Written: result.Written, Skipped: make([]skippedRowJSON, 0, len(result.Skipped))}
	for _, skip := range result.Skipped {
		resp.Skipped = append(resp.Skipped, skippedRowJSON{Index: skip.Index, Reason: skip.Reason})
	}
	writeJSON(w, http.StatusOK, resp)
}
