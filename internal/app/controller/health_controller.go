package controller

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// SystemStatus tracks per-subsystem connectivity as two independent
// flags, so a broken bucket does not mask a healthy spreadsheet and
// vice versa.
type SystemStatus struct {
	mu sync.RWMutex

	sheetsOK         bool
	storageOK        bool
	spreadsheetTitle string
	bucket           string
}

func NewSystemStatus() *SystemStatus {
	return &SystemStatus{}
}

func (s *SystemStatus) SetSheets(ok bool, spreadsheetTitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheetsOK = ok
	s.spreadsheetTitle = spreadsheetTitle
}

func (s *SystemStatus) SetStorage(ok bool, bucket string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storageOK = ok
	s.bucket = bucket
}

func (s *SystemStatus) Snapshot() (sheetsOK, storageOK bool, title, bucket string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheetsOK, s.storageOK, s.spreadsheetTitle, s.bucket
}

type HealthController struct {
	status *SystemStatus
}

func NewHealthController(status *SystemStatus) *HealthController {
	return &HealthController{status: status}
}

// Health reports overall and per-subsystem status.
// GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	sheetsOK, storageOK, title, bucket := ctrl.status.Snapshot()

	code := http.StatusOK
	overall := "healthy"
	if !sheetsOK || !storageOK {
		code = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(code, gin.H{
		"status": overall,
		"subsystems": gin.H{
			"sheets": gin.H{
				"connected":   sheetsOK,
				"spreadsheet": title,
			},
			"storage": gin.H{
				"connected": storageOK,
				"bucket":    bucket,
			},
		},
	})
}
