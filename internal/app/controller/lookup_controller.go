package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/app/service"
	apperrors "github.com/has-bi/you-posm/internal/errors"
	"github.com/has-bi/you-posm/pkg/logger"
)

type LookupController struct {
	lookupService service.LookupService
}

func NewLookupController(lookupService service.LookupService) *LookupController {
	return &LookupController{lookupService: lookupService}
}

// List returns the known store and employee names for the form's
// selection inputs.
// GET /api/v1/lookups
func (ctrl *LookupController) List(c *gin.Context) {
	ctx := c.Request.Context()

	stores, err := ctrl.lookupService.List(ctx, model.StoreSheet)
	if err != nil {
		logger.Error("Failed to list stores", err)
		info := apperrors.ParseError(err, "lookup read")
		apperrors.RespondWithError(c, http.StatusBadGateway, info.Code, info.Message)
		return
	}

	employees, err := ctrl.lookupService.List(ctx, model.EmployeeSheet)
	if err != nil {
		logger.Error("Failed to list employees", err)
		info := apperrors.ParseError(err, "lookup read")
		apperrors.RespondWithError(c, http.StatusBadGateway, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores":    stores,
		"employees": employees,
	})
}
