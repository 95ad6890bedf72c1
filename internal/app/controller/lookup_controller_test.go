package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/app/service"
	"github.com/has-bi/you-posm/internal/sheets"
)

func setupLookupControllerTest(t *testing.T) (*gin.Engine, *sheets.Fake) {
	fake := sheets.NewFake()
	fake.Seed(model.StoreSheet, [][]string{model.StoreHeaders, {"Zenith Mart"}, {"Acme Store"}})
	fake.Seed(model.EmployeeSheet, [][]string{model.EmployeeHeaders, {"Jane Doe"}})

	lookupController := NewLookupController(service.NewLookupService(fake))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/lookups", lookupController.List)
	return router, fake
}

func TestLookupController_List(t *testing.T) {
	router, _ := setupLookupControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/lookups", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"Acme Store", "Zenith Mart"}, response["stores"])
	assert.Equal(t, []string{"Jane Doe"}, response["employees"])
}

func TestLookupController_List_BackendDown(t *testing.T) {
	router, fake := setupLookupControllerTest(t)
	fake.ErrRows = assert.AnError

	req := httptest.NewRequest(http.MethodGet, "/lookups", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
