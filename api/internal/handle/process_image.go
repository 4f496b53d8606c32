package handle

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"rx-scanner/api/internal/metrics"
	"rx-scanner/api/internal/prescription"
	"rx-scanner/api/internal/util"
)

type ProcessImageResponse struct {
	ExtractedText   string                  `json:"extracted_text"`
	MedicineDetails []prescription.Medicine `json:"medicine_details"`
}

// ProcessImage runs the single linear request lifecycle: validate the upload,
// call the external model, clean and parse its reply, normalize, respond.
// Malformed model output is not an error; it degrades to an empty list.
func (h *Handle) ProcessImage(w http.ResponseWriter, r *http.Request) {
	// Hard cap on the whole body: ParseMultipartForm's maxMemory only
	// decides when parts spill to disk, it rejects nothing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			slog.Warn("upload over size cap", "max_bytes", h.maxUploadBytes, "remote", r.RemoteAddr)
			writeError(w, http.StatusRequestEntityTooLarge, ErrMsgTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, ErrMsgNoImage)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		// A part with an empty filename is parsed as a plain form value,
		// so distinguish "field present but nameless" from "field absent".
		if errors.Is(err, http.ErrMissingFile) &&
			r.MultipartForm != nil && len(r.MultipartForm.Value["image"]) > 0 {
			writeError(w, http.StatusBadRequest, ErrMsgEmptyFilename)
			return
		}
		writeError(w, http.StatusBadRequest, ErrMsgNoImage)
		return
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		writeError(w, http.StatusBadRequest, ErrMsgEmptyFilename)
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		slog.Error("reading upload failed", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	mime := util.PickMIME(header.Header.Get("Content-Type"), image)

	raw, err := h.engine.ExtractPrescription(r.Context(), image, mime)
	if err != nil {
		slog.Error("model call failed", "engine", h.engine.Name(), "error", err)
		metrics.ScanOutcomes.WithLabelValues("upstream_error").Inc()
		writeError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	cleaned := util.CleanModelJSON(raw)
	records := prescription.Decode(cleaned)
	if records == nil {
		slog.Warn("model reply is not usable JSON, falling back to empty list",
			"engine", h.engine.Name(), "reply_len", len(cleaned))
	}
	medicines := prescription.Normalize(records)

	outcome := "parsed"
	if len(medicines) == 0 {
		outcome = "empty"
	}
	metrics.ScanOutcomes.WithLabelValues(outcome).Inc()
	slog.Info("prescription processed", "medicines", len(medicines), "mime", mime)

	writeJSON(w, http.StatusOK, ProcessImageResponse{
		ExtractedText:   cleaned,
		MedicineDetails: medicines,
	})
}
