package apiservice

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type CheckSummary struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
	Elapsed   string    `json:"elapsed"`
}

// APIInfo keeps the last check result of every destination.
type APIInfo struct {
	destinations []string
	lastChecks   map[string]CheckSummary
	checkCounts  map[string]int
	mu           sync.Mutex
}

func NewAPIInfo(destinations []string) *APIInfo {
	return &APIInfo{
		destinations: destinations,
		lastChecks:   make(map[string]CheckSummary),
		checkCounts:  make(map[string]int),
	}
}

func (s *APIInfo) registerRouter(router *gin.Engine) {
	router.GET("/info", func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{
			"destinations": s.destinations,
			"last_checks":  s.lastChecks,
			"check_counts": s.checkCounts,
		})
	})
}

// ObserveCheck is a destination.CheckObserver.
func (s *APIInfo) ObserveCheck(dest string, status destination.ConnectionStatus, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkCounts[dest]++
	s.lastChecks[dest] = CheckSummary{
		Status:    string(status.Status),
		Message:   status.Message,
		CheckedAt: time.Now().UTC(),
		Elapsed:   elapsed.String(),
	}
	if !status.IsSucceeded() {
		log.Warn("Connection check failed", zap.String("destination", dest), zap.String("message", status.Message))
	}
}

func (s *APIInfo) LastCheck(dest string) (CheckSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.lastChecks[dest]
	return summary, ok
}
