// workers/winner_reconcile_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"contest-hub-service/models"
)

// WinnerReconcileWorker repairs partially-applied winner declarations.
// The declaration endpoint commits contest fields, profile counter and
// winner record in one transaction, but contests written by the older
// three-step client flow (or by out-of-band admin edits) can carry
// winner fields with no winner record, and win counters can drift. The
// worker makes both converge on the contest table as source of truth.
type WinnerReconcileWorker struct {
	db       *gorm.DB
	interval time.Duration
}

func NewWinnerReconcileWorker(db *gorm.DB) *WinnerReconcileWorker {
	return &WinnerReconcileWorker{
		db:       db,
		interval: 5 * time.Minute,
	}
}

func (w *WinnerReconcileWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Winner Reconcile Worker…")
	go w.run(ctx)
}

func (w *WinnerReconcileWorker) run(ctx context.Context) {
	// First pass immediately so restarts converge fast
	w.reconcile()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.reconcile()
		case <-ctx.Done():
			log.Println("Winner Reconcile Worker stopped")
			return
		}
	}
}

func (w *WinnerReconcileWorker) reconcile() {
	w.backfillWinnerRecords()
	w.recountWins()
}

// backfillWinnerRecords creates the public winner record for any
// contest that has winner fields but no matching row.
func (w *WinnerReconcileWorker) backfillWinnerRecords() {
	var contests []models.Contest
	err := w.db.
		Where("winner_email <> ''").
		Where("id NOT IN (?)", w.db.Model(&models.Winner{}).Select("contest_id")).
		Find(&contests).Error
	if err != nil {
		log.Printf("⚠️ reconcile query failed: %v", err)
		return
	}

	for _, contest := range contests {
		winner := models.Winner{
			ID:          uuid.NewString(),
			ContestID:   contest.ID,
			Name:        contest.WinnerName,
			AvatarURL:   contest.WinnerImageURL,
			Prize:       contest.PrizeMoney,
			Email:       contest.WinnerEmail,
			ContestName: contest.Name,
			Position:    models.WinnerPosition,
			Badge:       models.WinnerBadge,
		}
		if err := w.db.Create(&winner).Error; err != nil {
			log.Printf("⚠️ failed to backfill winner record for contest %s: %v", contest.ID, err)
			continue
		}
		log.Printf("🔧 Backfilled winner record for contest %s (%s)", contest.ID, contest.WinnerEmail)
	}
}

// recountWins resets each affected profile counter to the number of
// contests actually won. Idempotent; converges drifted counters.
func (w *WinnerReconcileWorker) recountWins() {
	err := w.db.Exec(`
		UPDATE users SET total_won = sub.won
		FROM (
			SELECT winner_email AS email, COUNT(*) AS won
			FROM contests
			WHERE winner_email <> '' AND deleted_at IS NULL
			GROUP BY winner_email
		) AS sub
		WHERE users.email = sub.email AND users.total_won <> sub.won
	`).Error
	if err != nil {
		log.Printf("⚠️ win recount failed: %v", err)
	}
}
