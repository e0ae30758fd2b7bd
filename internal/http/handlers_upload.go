package http

import (
	"log/slog"
	"net/http"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// handleUploadDocument accepts a multipart upload and stores the file with
// the configured uploader. Returns 503 when no uploader is configured.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		respondError(w, http.StatusServiceUnavailable, "document storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	name := sanitizeInput(header.Filename)
	if name == "" {
		respondError(w, http.StatusUnprocessableEntity, "empty file name")
		return
	}

	doc, err := s.uploader.Upload(r.Context(), name, header.Header.Get("Content-Type"), file)
	if err != nil {
		slog.ErrorContext(r.Context(), "Document upload failed",
			"name", name,
			"error", err)
		respondError(w, http.StatusBadGateway, "upload failed")
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// handleDeleteDocument removes a previously uploaded document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		respondError(w, http.StatusServiceUnavailable, "document storage not configured")
		return
	}

	id := r.PathValue("id")
	if err := s.uploader.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Document delete failed",
			"document_id", id,
			"error", err)
		respondError(w, http.StatusBadGateway, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
