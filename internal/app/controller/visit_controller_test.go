package controller

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/app/service"
	"github.com/has-bi/you-posm/internal/sheets"
	"github.com/has-bi/you-posm/internal/storage"
)

func setupVisitControllerTest(t *testing.T) (*gin.Engine, *sheets.Fake, *storage.Fake) {
	fake := sheets.NewFake()
	fake.Seed(model.LedgerSheet, [][]string{model.LedgerHeaders})
	fake.Seed(model.StoreSheet, [][]string{model.StoreHeaders})
	fake.Seed(model.EmployeeSheet, [][]string{model.EmployeeHeaders})
	fakeStore := storage.NewFake("posm-test")

	lookupService := service.NewLookupService(fake)
	imageService := service.NewImageService(fakeStore)
	visitService := service.NewVisitService(fake, imageService, lookupService)
	visitController := NewVisitController(visitService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/visits", visitController.Submit)
	return router, fake, fakeStore
}

func photoBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: 160, G: 80, B: 20, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type submitForm struct {
	fields map[string]string
	files  map[string][]byte
}

func multipartRequest(t *testing.T, form submitForm) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range form.fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for field, data := range form.files {
		fw, err := writer.CreateFormFile(field, field+".jpg")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/visits", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestVisitController_Submit_Success(t *testing.T) {
	router, fake, fakeStore := setupVisitControllerTest(t)
	photo := photoBytes(t)

	req := multipartRequest(t, submitForm{
		fields: map[string]string{
			"store_name":    "New Mart",
			"employee_name": "Jane Doe",
			"date":          "2024-05-01",
			"notes":         "Shelf restocked",
		},
		files: map[string][]byte{
			"before_image": photo,
			"after_image":  photo,
		},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "New Mart", response["store_name"])
	assert.Equal(t, "Visited", response["status"])
	assert.NotEmpty(t, response["before_image"])
	assert.NotEmpty(t, response["after_image"])

	assert.Len(t, fake.RowsOf(model.LedgerSheet), 2)
	assert.Len(t, fakeStore.Objects(), 2)
}

func TestVisitController_Submit_OutOfStock(t *testing.T) {
	router, fake, _ := setupVisitControllerTest(t)
	photo := photoBytes(t)

	req := multipartRequest(t, submitForm{
		fields: map[string]string{
			"store_name":    "New Mart",
			"employee_name": "Jane Doe",
			"date":          "2024-05-01",
			"out_of_stock":  "true",
			"notes":         "will be overridden",
		},
		files: map[string][]byte{
			"before_image": photo,
			"after_image":  photo,
		},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	ledger := fake.RowsOf(model.LedgerSheet)
	require.Len(t, ledger, 2)
	assert.Equal(t, model.OutOfStockNote, ledger[1][7])
}

func TestVisitController_Submit_MissingEverything(t *testing.T) {
	router, fake, fakeStore := setupVisitControllerTest(t)

	req := multipartRequest(t, submitForm{fields: map[string]string{}})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_MISSING_FIELDS", response["error"])
	fields := response["fields"].([]interface{})
	assert.Len(t, fields, 4)

	// No writes on a rejected submission.
	assert.Len(t, fake.RowsOf(model.LedgerSheet), 1)
	assert.Len(t, fake.RowsOf(model.StoreSheet), 1)
	assert.Empty(t, fakeStore.Objects())
}

func TestVisitController_Submit_InvalidDate(t *testing.T) {
	router, _, _ := setupVisitControllerTest(t)

	req := multipartRequest(t, submitForm{
		fields: map[string]string{"date": "05/01/2024"},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_INVALID_DATE", response["error"])
}

func TestVisitController_Submit_NonImagePayload(t *testing.T) {
	router, fake, _ := setupVisitControllerTest(t)

	req := multipartRequest(t, submitForm{
		fields: map[string]string{
			"store_name":    "New Mart",
			"employee_name": "Jane Doe",
		},
		files: map[string][]byte{
			"before_image": []byte("plain text masquerading as a photo"),
			"after_image":  photoBytes(t),
		},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "UPLOAD_INVALID_FILE_TYPE", response["error"])
	assert.Len(t, fake.RowsOf(model.LedgerSheet), 1)
}

func TestVisitController_Submit_UploadBackendDown(t *testing.T) {
	router, fake, fakeStore := setupVisitControllerTest(t)
	fakeStore.ErrUpload = assert.AnError
	photo := photoBytes(t)

	req := multipartRequest(t, submitForm{
		fields: map[string]string{
			"store_name":    "New Mart",
			"employee_name": "Jane Doe",
		},
		files: map[string][]byte{
			"before_image": photo,
			"after_image":  photo,
		},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Len(t, fake.RowsOf(model.LedgerSheet), 1)
}
