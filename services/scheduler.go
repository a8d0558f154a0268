// services/scheduler.go
package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"

	"contest-hub-service/models"
)

// StartExpiryScheduler drops checkout sessions that were opened but
// never paid. Abandoned checkouts would otherwise block the user from
// re-registering (the contest/user pair is unique).
func (s *PaymentService) StartExpiryScheduler() {
	ttl := 24 * time.Hour
	if v := os.Getenv("CHECKOUT_TTL_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			ttl = time.Duration(h) * time.Hour
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-ttl)
			res := s.DB.Where("payment_status = ? AND created_at < ?",
				models.PaymentStatusUnpaid, cutoff).
				Delete(&models.Registration{})
			if res.Error != nil {
				log.Printf("[Scheduler] DB error: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("✅ Expired %d stale checkout sessions", res.RowsAffected)
			}
		}),
	)
}
