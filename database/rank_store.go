// backend/database/rank_store.go
package database

import (
	"fmt"
	"log"

	"github.com/gewnthar/flightops/backend/models"
)

// GetRanks returns all ranks ordered by ascending hours threshold.
// Reference data; read-only from this core's perspective.
func GetRanks() ([]models.Rank, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := DB.Query(`
		SELECT id, name, hours_threshold, auto_approve_manual, auto_approve_acars
		FROM ranks
		ORDER BY hours_threshold, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranks: %w", err)
	}
	defer rows.Close()

	var ranks []models.Rank
	for rows.Next() {
		var r models.Rank
		err := rows.Scan(&r.ID, &r.Name, &r.HoursThreshold, &r.AutoApproveManual, &r.AutoApproveACARS)
		if err != nil {
			log.Printf("ERROR: Failed to scan rank row: %v", err)
			continue
		}
		ranks = append(ranks, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rank rows: %w", err)
	}
	return ranks, nil
}

// GetRank returns the rank with the given id.
func GetRank(id int64) (*models.Rank, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var r models.Rank
	err := DB.QueryRow(`
		SELECT id, name, hours_threshold, auto_approve_manual, auto_approve_acars
		FROM ranks
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Name, &r.HoursThreshold, &r.AutoApproveManual, &r.AutoApproveACARS)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank %d: %w", id, err)
	}
	return &r, nil
}
