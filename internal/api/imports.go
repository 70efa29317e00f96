package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"demodash/internal/combine"
	"demodash/internal/ingest"
	"demodash/internal/logging"
)

// maxUploadMemory bounds how much of a multipart body stays in memory.
const maxUploadMemory = 32 << 20

// UploadHandler saves uploaded demo files to disk and enqueues import jobs
// for them, grouped into multi-part sets by filename.
type UploadHandler struct {
	uploadDir string
	imports   ingest.ImportRegistrar
	queue     ingest.JobQueue
}

// NewUploadHandler builds an UploadHandler writing into uploadDir.
func NewUploadHandler(uploadDir string, imports ingest.ImportRegistrar, queue ingest.JobQueue) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir, imports: imports, queue: queue}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploads == nil {
		WriteError(w, http.StatusServiceUnavailable, "import pipeline is not running")
		return
	}
	s.uploads.ServeHTTP(w, r)
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	files := r.MultipartForm.File["demos"]
	if len(files) == 0 {
		WriteError(w, http.StatusBadRequest, "no demo files in request")
		return
	}

	names := make([]string, 0, len(files))
	byName := make(map[string]int, len(files))
	for i, fh := range files {
		name := filepath.Base(fh.Filename)
		if !strings.HasSuffix(name, ".dem") {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("%q is not a .dem file", name))
			return
		}
		names = append(names, name)
		byName[name] = i
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		WriteError(w, http.StatusInternalServerError, "prepare upload directory")
		return
	}

	var queued []ingest.QueuedFile
	for _, group := range combine.GroupParts(names) {
		paths := make([]string, 0, len(group.Files))
		for _, name := range group.Files {
			path, err := h.save(files[byName[name]])
			if err != nil {
				logging.Logger().Errorf("save upload %q: %v", name, err)
				WriteError(w, http.StatusInternalServerError, fmt.Sprintf("save %q", name))
				return
			}
			paths = append(paths, path)
		}
		qf, err := ingest.EnqueueGroup(r.Context(), h.imports, h.queue, group.Base, paths, group.Files)
		queued = append(queued, qf...)
		if err != nil {
			logging.Logger().Errorf("enqueue group %q: %v", group.Base, err)
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("enqueue %q", group.Base))
			return
		}
	}

	WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"queued": queued,
	})
}

// save copies one uploaded file into the upload directory under a unique
// name and returns its path.
func (h *UploadHandler) save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(h.uploadDir, uuid.NewString()+".dem")
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	imports, err := s.imports.Recent(r.Context(), limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "load imports")
		return
	}
	WriteJSON(w, http.StatusOK, imports)
}
