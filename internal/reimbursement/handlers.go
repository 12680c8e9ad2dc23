package reimbursement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/zombor/reimburse-tracker/internal/receipt"
	"github.com/zombor/reimburse-tracker/internal/toast"
)

// maxFormSize bounds the multipart body, leaving room for the text fields
const maxFormSize = MaxReceiptSize + 1<<20

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// jsonError writes {"error": message}
func jsonError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// queryInt reads a positive integer query parameter, returning def when it
// is absent
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

// handleListCategories returns the fixed category list
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Categories)
}

// handleListReimbursements returns one page of reimbursements
func (s *Server) handleListReimbursements(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", DefaultLimit)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.service.List(page, limit, r.URL.Query().Get("search"))
	if err != nil {
		slog.Error("Error listing reimbursements", "error", err)
		s.toastFailure("Could not load reimbursements")
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetReimbursement returns a single reimbursement
func (s *Server) handleGetReimbursement(w http.ResponseWriter, r *http.Request) {
	reimbursement, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, reimbursement)
}

// handleCreateReimbursement validates an uploaded request and stores it
func (s *Server) handleCreateReimbursement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorMsg = "File is too large. Maximum size is 5MB"
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	form := Form{
		Name:     r.FormValue("name"),
		Category: r.FormValue("category"),
		Amount:   r.FormValue("amount"),
	}

	f, header, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Error getting file from form", "error", err)
		jsonError(w, "Error reading file. Please try again.", http.StatusBadRequest)
		return
	}
	if err == nil {
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			slog.Error("Error reading file data", "error", err, "filename", header.Filename)
			jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
			return
		}
		form.Filename = header.Filename
		form.File = data
	}

	input, err := form.Validate()
	if err != nil {
		var fields ValidationErrors
		if errors.As(err, &fields) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "Invalid reimbursement",
				"fields": fields,
			})
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	reimbursement, err := s.service.Create(*input)
	if err != nil {
		slog.Error("Error creating reimbursement", "name", input.Name, "error", err)
		s.toastFailure("Could not submit the reimbursement. Please try again.")
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.toasts.Toast(toast.Props{
		Title:       "Reimbursement submitted",
		Description: fmt.Sprintf("%s · %s · %s", reimbursement.Name, reimbursement.Category, FormatCurrency(reimbursement.Amount)),
		Variant:     toast.VariantSuccess,
	})
	writeJSON(w, http.StatusCreated, reimbursement)
}

// handleDeleteReimbursement deletes a reimbursement
func (s *Server) handleDeleteReimbursement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := s.service.GetByID(id)
	if err != nil {
		slog.Error("Error getting reimbursement", "id", id, "error", err)
		s.toastFailure("Could not delete the reimbursement")
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.service.Delete(id); err != nil {
		slog.Error("Error deleting reimbursement", "id", id, "error", err)
		s.toastFailure("Could not delete the reimbursement")
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if existing != nil {
		description := existing.Name
		if date, err := FormatDate(existing.CreatedAt); err == nil {
			description = fmt.Sprintf("%s, %s", existing.Name, date)
		}
		s.toasts.Toast(toast.Props{
			Title:       "Reimbursement deleted",
			Description: description,
			Variant:     toast.VariantSuccess,
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDownloadReceipt sends the stored receipt as an attachment
func (s *Server) handleDownloadReceipt(w http.ResponseWriter, r *http.Request) {
	reimbursement, ok := s.lookupWithReceipt(w, r)
	if !ok {
		return
	}

	download, err := receipt.NewDownload(reimbursement.Receipt, reimbursement.ReceiptName)
	if err != nil {
		slog.Error("Error decoding receipt", "id", reimbursement.ID, "error", err)
		s.toastFailure("Could not download the file. Please try again.")
		jsonError(w, "Could not download the file. Please try again.", http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", download.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(download.Data)))
	w.Write(download.Data)
}

// handlePreviewReceipt renders the stored receipt as a PNG
func (s *Server) handlePreviewReceipt(w http.ResponseWriter, r *http.Request) {
	reimbursement, ok := s.lookupWithReceipt(w, r)
	if !ok {
		return
	}

	blob, err := receipt.Decode(reimbursement.Receipt)
	if err != nil {
		jsonError(w, "Receipt is unreadable", http.StatusUnprocessableEntity)
		return
	}

	data, err := receipt.Preview(blob)
	if err != nil {
		if errors.Is(err, receipt.ErrUnsupported) {
			jsonError(w, "Preview not available for this file type", http.StatusUnsupportedMediaType)
			return
		}
		slog.Error("Error rendering preview", "id", reimbursement.ID, "error", err)
		jsonError(w, "Receipt is unreadable", http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// viewerResponse describes the handle the viewer is showing
type viewerResponse struct {
	receipt.Handle
	Href string `json:"href"`
	Name string `json:"name,omitempty"`
}

func newViewerResponse(h *receipt.Handle, name string) viewerResponse {
	return viewerResponse{
		Handle: *h,
		Href:   "/blob/" + strings.TrimPrefix(h.URL, "blob:"),
		Name:   name,
	}
}

// handleOpenViewer shows a reimbursement's receipt, replacing whatever the
// viewer had open
func (s *Server) handleOpenViewer(w http.ResponseWriter, r *http.Request) {
	reimbursement, ok := s.lookupWithReceipt(w, r)
	if !ok {
		return
	}

	h, err := s.viewer.Open(reimbursement.Receipt)
	if err != nil {
		slog.Error("Error opening receipt", "id", reimbursement.ID, "error", err)
		jsonError(w, "Receipt is unreadable", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, newViewerResponse(h, reimbursement.ReceiptName))
}

// handleGetViewer returns the handle the viewer is showing
func (s *Server) handleGetViewer(w http.ResponseWriter, r *http.Request) {
	h := s.viewer.Current()
	if h == nil {
		jsonError(w, "No receipt open", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newViewerResponse(h, ""))
}

// handleCloseViewer releases the viewer's handle
func (s *Server) handleCloseViewer(w http.ResponseWriter, r *http.Request) {
	s.viewer.Close()
	w.WriteHeader(http.StatusNoContent)
}

// handleGetBlob serves the content behind a live handle
func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	blob, ok := s.registry.Lookup("blob:" + r.PathValue("handle"))
	if !ok {
		jsonError(w, "Handle not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", blob.MediaType)
	w.Write(blob.Data)
}

// handleListToasts returns the current toasts
func (s *Server) handleListToasts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toast.State{Toasts: s.toasts.Toasts()})
}

// handleDismissToasts dismisses one toast, or all of them when no id is given
func (s *Server) handleDismissToasts(w http.ResponseWriter, r *http.Request) {
	s.toasts.Dismiss(r.URL.Query().Get("id"))
	w.WriteHeader(http.StatusNoContent)
}

// lookup loads the reimbursement named by the {id} path value, writing an
// error response when it cannot
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Reimbursement, bool) {
	id := r.PathValue("id")
	reimbursement, err := s.service.GetByID(id)
	if err != nil {
		slog.Error("Error getting reimbursement", "id", id, "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if reimbursement == nil {
		jsonError(w, "Reimbursement not found", http.StatusNotFound)
		return nil, false
	}
	return reimbursement, true
}

// lookupWithReceipt is lookup for routes that need an attached receipt
func (s *Server) lookupWithReceipt(w http.ResponseWriter, r *http.Request) (*Reimbursement, bool) {
	reimbursement, ok := s.lookup(w, r)
	if !ok {
		return nil, false
	}
	if reimbursement.Receipt == "" {
		jsonError(w, "Reimbursement has no receipt", http.StatusNotFound)
		return nil, false
	}
	return reimbursement, true
}

func (s *Server) toastFailure(description string) {
	s.toasts.Toast(toast.Props{
		Title:       "Something went wrong",
		Description: description,
		Variant:     toast.VariantDestructive,
	})
}
