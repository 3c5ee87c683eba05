package workers

import (
	"context"
	"log"
	"time"

	"recipe-share-system/services"
)

var warmBoards = []string{"xp", "recipes", "cooked"}

// WarmLeaderboards keeps the first page of every leaderboard hot in Redis so
// the common request never hits the aggregate query cold.
func WarmLeaderboards(ctx context.Context, svc *services.LeaderboardService, interval time.Duration) {
	log.Println("Starting leaderboard cache warmer...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	warm := func() {
		for _, board := range warmBoards {
			if _, err := svc.Board(ctx, board, "all", 1, 25); err != nil {
				log.Printf("❌ Error warming %s leaderboard: %v", board, err)
			}
		}
	}

	warm()

	for {
		select {
		case <-ctx.Done():
			log.Println("Leaderboard cache warmer stopped.")
			return
		case <-ticker.C:
			warm()
		}
	}
}
