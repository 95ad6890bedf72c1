package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/app/service"
	apperrors "github.com/has-bi/you-posm/internal/errors"
	"github.com/has-bi/you-posm/internal/imaging"
	"github.com/has-bi/you-posm/pkg/logger"
)

// maxImageBytes caps one uploaded photo before decoding.
const maxImageBytes = 10 << 20

type VisitController struct {
	visitService service.VisitService
}

func NewVisitController(visitService service.VisitService) *VisitController {
	return &VisitController{visitService: visitService}
}

// Submit records one store visit.
// POST /api/v1/visits (multipart/form-data)
func (ctrl *VisitController) Submit(c *gin.Context) {
	var visitDate time.Time
	if raw := c.PostForm("date"); raw != "" {
		parsed, err := time.Parse(model.DateLayout, raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidDate, "Date must be formatted as YYYY-MM-DD")
			return
		}
		visitDate = parsed
	}

	before, err := readImageFile(c, "before_image")
	if err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		return
	}
	after, err := readImageFile(c, "after_image")
	if err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		return
	}

	input := service.VisitInput{
		StoreName:    c.PostForm("store_name"),
		EmployeeName: c.PostForm("employee_name"),
		VisitDate:    visitDate,
		BeforeImage:  before,
		AfterImage:   after,
		OutOfStock:   c.PostForm("out_of_stock") == "true",
		Notes:        c.PostForm("notes"),
	}

	record, err := ctrl.visitService.Submit(c.Request.Context(), input)
	if err != nil {
		ctrl.respondSubmitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Visit recorded",
		"store_name":   record.StoreName,
		"employee":     record.EmployeeName,
		"date":         record.VisitDate.Format(model.DateLayout),
		"before_image": record.BeforeImageURL,
		"after_image":  record.AfterImageURL,
		"timestamp":    record.SubmittedAt.Format(model.TimestampLayout),
		"status":       record.Status,
		"notes":        record.Notes,
	})
}

func (ctrl *VisitController) respondSubmitError(c *gin.Context, err error) {
	var problems service.ValidationErrors
	if errors.As(err, &problems) {
		apperrors.RespondWithValidationErrors(c, problems)
		return
	}

	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Photos must be JPEG, PNG, or WebP")
		return
	}

	if errors.Is(err, service.ErrUploadFailed) {
		logger.Error("Submission failed during image upload", err)
		apperrors.BadGateway(c, apperrors.UploadFailed, "Image upload failed. Nothing was recorded, please try again")
		return
	}

	if errors.Is(err, service.ErrWriteFailed) {
		logger.Error("Submission failed during ledger append", err)
		apperrors.BadGateway(c, apperrors.WriteFailed, "Could not write to the spreadsheet. Please try again")
		return
	}

	logger.Error("Submission failed", err)
	apperrors.InternalError(c, "")
}

// readImageFile pulls one multipart image into memory, capped at
// maxImageBytes. A missing file is not an error here; the workflow
// reports it in the validation batch.
func readImageFile(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil
	}
	defer file.Close()

	return readLimited(file)
}

func readLimited(file multipart.File) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return nil, errors.New("unable to read uploaded photo")
	}
	if len(raw) > maxImageBytes {
		return nil, errors.New("photo exceeds the 10 MB limit")
	}
	return raw, nil
}
