package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/layoutcheck/internal/check"
	"github.com/dgallion1/layoutcheck/internal/document"
	"github.com/dgallion1/layoutcheck/internal/extract"
	"github.com/dgallion1/layoutcheck/internal/layout"
	"github.com/dgallion1/layoutcheck/internal/report"
	"github.com/google/uuid"
)

type diagnosticJSON struct {
	Key     string        `json:"key"`
	Reason  layout.Reason `json:"reason"`
	Message string        `json:"message"`
}

// handleCheck compares an uploaded PDF with the reference template.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	checkID := uuid.NewString()
	w.Header().Set("X-Check-ID", checkID)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if filepath.Ext(filename) != document.Extension {
		jsonError(w, fmt.Sprintf("unsupported file type: %q", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	// The loader works on paths, so the upload goes to a temp file that keeps
	// the .pdf extension.
	tmp, err := os.CreateTemp("", "layoutcheck-*"+document.Extension)
	if err != nil {
		jsonError(w, "failed to buffer upload", http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	n, err := io.Copy(tmp, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.log.Error("buffer upload failed", "check_id", checkID, "filename", filename, "error", err)
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if n > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	out, err := s.checker.Run(tmpPath)
	if err != nil {
		s.log.Error("layout check failed", "check_id", checkID, "filename", filename, "error", err)
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	out.Name = filename
	s.log.Info("layout checked", "check_id", checkID, "filename", filename, "conforms", out.Conforms())

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "html":
		body, err := report.HTML(out)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	case "docx":
		body, err := report.DOCX(out)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		attachment(w, report.DOCXContentType, filename, ".docx", body)
	case "xlsx":
		body, err := report.XLSX(out)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		attachment(w, report.XLSXContentType, filename, ".xlsx", body)
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, report.Markdown(out))
	default:
		diags := make([]diagnosticJSON, 0, len(out.Result.Diagnostics))
		for _, d := range out.Result.Diagnostics {
			diags = append(diags, diagnosticJSON{Key: d.Key, Reason: d.Reason, Message: d.String()})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          checkID,
			"file":        filename,
			"conforms":    out.Conforms(),
			"params":      out.Candidate.Values(),
			"diagnostics": diags,
		})
	}
}

func attachment(w http.ResponseWriter, contentType, filename, ext string, body []byte) {
	name := strings.TrimSuffix(filename, document.Extension) + "-layout" + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(body)
}

// handleReference returns the parsed reference template.
func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	ref, err := s.checker.Reference()
	if err != nil {
		s.log.Error("reference load failed", "error", err)
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	params := ref.Params()
	ordered := make([]layout.Parameter, 0, len(params))
	for _, k := range params.Keys() {
		ordered = append(ordered, params[k])
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"path":   ref.Path(),
		"params": ordered,
	})
}

// statusFor maps load errors to HTTP statuses. Reference failures are
// server-side problems whatever their cause.
func statusFor(err error) int {
	switch {
	case errors.Is(err, check.ErrReference):
		return http.StatusInternalServerError
	case errors.Is(err, document.ErrInvalidPath), errors.Is(err, document.ErrUnsupportedFileType):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrCorruptDocument), errors.Is(err, layout.ErrMissingNotesContext):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
