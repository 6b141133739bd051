package api

import (
	"errors"
	"net/http"

	"github.com/rpupo63/virtuality-fashion-backend/admin"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxUploadBodySize leaves room for the multipart envelope around a maximal image.
const maxUploadBodySize = storage.MaxImageSize + 1<<20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  admin.Uploader
}

func newUploadHandler(uploader admin.Uploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

// uploadImage stores an image and returns its public URL
// @Summary Upload image
// @Description Stores an image under portraits/ or portfolio/ and returns the public URL. Each call creates a new object.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (image/*, at most 5MB)"
// @Param folder formData string true "portraits or portfolio"
// @Success 200 {object} UploadResponse "Public URL"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing file or invalid folder"
// @Failure 413 {object} ErrorResponse "Image too large"
// @Failure 415 {object} ErrorResponse "Not an image"
// @Failure 503 {object} ErrorResponse "Storage unavailable"
// @Router /api/upload [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.uploader == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("object storage is not configured", nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
		if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, storage.ErrTooLarge)
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		folder, err := storage.ParseFolder(r.FormValue("folder"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		_, fh, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}

		url, err := admin.UploadImage(r.Context(), h.uploader, folder, fh)
		if err != nil {
			h.logger.Warn().Err(err).Str("folder", string(folder)).Str("filename", fh.Filename).Msg("upload rejected")
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("url", url).Msg("image uploaded")
		h.responder.WriteJSON(w, UploadResponse{URL: url})
	}
}
