package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/hoopstack/hoops-manager/middleware"
	"github.com/hoopstack/hoops-manager/services"
)

// Workbooks above this size are rejected before parsing.
const maxWorkbookBytes = 16 << 20 // 16MB

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(is services.ImportService) *ImportHandler {
	return &ImportHandler{importService: is}
}

// Upload handles POST /imports: a multipart form with a "file" workbook and
// an optional "strict" flag.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWorkbookBytes)
	if err := r.ParseMultipartForm(maxWorkbookBytes); err != nil {
		badRequestResponse(w, r, errors.New("request must be a multipart form with a workbook file"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("workbook file is required in the \"file\" form field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequestResponse(w, r, errors.New("failed to read uploaded workbook"))
		return
	}

	opts := services.ImportOptions{
		Strict: r.FormValue("strict") == "true",
	}

	result, err := h.importService.ImportWorkbook(r.Context(), currentUserID, header.Filename, data, opts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"import": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Template handles GET /imports/template, serving an empty workbook with the
// expected sheets and headers.
func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	data, err := h.importService.BuildTemplate()
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="tournament_import_template.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		serverErrorResponse(w, r, err)
	}
}
