package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/audiocorpus/speechapi/internal/audio"
	"github.com/audiocorpus/speechapi/internal/transcribe"
)

// auxFields are the optional upload fields accepted alongside the audio.
// They are persisted for the request's lifetime and discarded unread.
var auxFields = []string{"vocab_file", "csv_file"}

type TranscribeHandler struct {
	svc            *transcribe.Service
	tempDir        string
	maxUploadBytes int64
}

func NewTranscribeHandler(svc *transcribe.Service, tempDir string, maxUploadBytes int64) *TranscribeHandler {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 100 << 20
	}
	return &TranscribeHandler{svc: svc, tempDir: tempDir, maxUploadBytes: maxUploadBytes}
}

// Transcribe accepts a multipart upload with a required audio_file field and
// returns the decoded transcript. Every temp file is removed before the
// response is written, on success and failure alike.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audio_file required"})
		return
	}
	defer file.Close()

	reqID := uuid.NewString()
	audioPath := filepath.Join(h.tempDir, fmt.Sprintf("%s_%s", reqID, safeFilename(header.Filename)))
	if err := saveUpload(file, audioPath); err != nil {
		slog.Error("failed to persist upload", "filename", header.Filename, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
		return
	}

	temps := []string{audioPath}
	defer func() { audio.Cleanup(temps) }()

	for _, field := range auxFields {
		aux, auxHeader, err := r.FormFile(field)
		if err != nil {
			continue
		}
		auxPath := filepath.Join(h.tempDir, fmt.Sprintf("%s_%s", reqID, safeFilename(auxHeader.Filename)))
		err = saveUpload(aux, auxPath)
		aux.Close()
		if err != nil {
			slog.Error("failed to persist upload", "filename", auxHeader.Filename, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
			return
		}
		temps = append(temps, auxPath)
	}

	result, err := h.svc.Transcribe(r.Context(), audioPath, header.Filename)
	if err != nil {
		var decodeErr *audio.DecodeError
		if errors.As(err, &decodeErr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable or unsupported audio file"})
			return
		}
		slog.Error("transcription failed", "filename", header.Filename, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "transcription failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func saveUpload(src multipart.File, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// safeFilename strips any path components a client may have sent.
func safeFilename(name string) string {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}
	return base
}
