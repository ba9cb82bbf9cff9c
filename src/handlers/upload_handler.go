// backend/src/handlers/upload_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/username/rentfolio/backend/src/config"
	"github.com/username/rentfolio/backend/src/logger"
	"github.com/username/rentfolio/backend/src/security/validation"
	"github.com/username/rentfolio/backend/src/services"
	"github.com/username/rentfolio/backend/src/utils"
)

type UploadHandler struct {
	importService services.ImportService
}

func NewUploadHandler(service services.ImportService) *UploadHandler {
	return &UploadHandler{
		importService: service,
	}
}

// HandleUpload accepts a multipart form with the booking export under
// "file" (required) and the guest-details spreadsheet under "guest_details"
// (optional). Row-level problems come back as warnings in the result; only
// a structurally unreadable export is an error.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("failed to read upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		source = "lodgify"
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "booking export file is required under the 'file' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("file too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	if err := validateUploadedFile(file, fileHeader); err != nil {
		ctxLogger.Warn("Upload content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var guestDetails multipart.File
	if gdFile, gdHeader, gdErr := r.FormFile("guest_details"); gdErr == nil {
		defer gdFile.Close()
		if err := validateUploadedFile(gdFile, gdHeader); err != nil {
			ctxLogger.Warn("Guest details validation failed", "filename", gdHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("guest details file rejected: %v", err), http.StatusBadRequest)
			return
		}
		guestDetails = gdFile
	}

	ctxLogger.Info("Processing booking import", "filename", fileHeader.Filename, "source", source)

	result, err := h.importService.ProcessImport(file, readerOrNil(guestDetails), source, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			ctxLogger.Warn("Import parsing failed", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		ctxLogger.Error("Import processing failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, "failed to process booking import", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		ctxLogger.Error("Error encoding JSON response for import result", "error", err)
	}
}

// validateUploadedFile checks the client-declared content type and then the
// actual content (magic bytes / binary sniffing) before parsing.
func validateUploadedFile(file multipart.File, header *multipart.FileHeader) error {
	clientContentType := header.Header.Get("Content-Type")
	if clientContentType != "" {
		if err := validation.ValidateClientContentType(clientContentType); err != nil {
			return err
		}
	}
	_, err := validation.ValidateFileContentByMagicBytes(file)
	return err
}

// readerOrNil converts an absent optional upload into a typed nil the
// service can distinguish. A plain nil multipart.File inside an io.Reader
// interface would otherwise look non-nil.
func readerOrNil(file multipart.File) io.Reader {
	if file == nil {
		return nil
	}
	return file
}
