package postgres

import (
	"fmt"

	"github.com/julianstephens/pausa/internal/models"
)

func (s *Store) AddBreakEvent(ev models.BreakEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO break_events (id, reminder_type, day, completed_at, scheduled_for, delay_ms)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, string(ev.ReminderType), ev.Day, ev.CompletedAt.UTC(), ev.ScheduledFor.UTC(), ev.DelayMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert break event: %w", err)
	}
	return nil
}

func (s *Store) GetBreakEvents(startDay, endDay string) ([]models.BreakEvent, error) {
	rows, err := s.db.Query(`
		SELECT id, reminder_type, day, completed_at, scheduled_for, delay_ms
		FROM break_events
		WHERE day >= $1 AND day <= $2
		ORDER BY completed_at ASC`, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.BreakEvent
	for rows.Next() {
		var ev models.BreakEvent
		var reminderType string
		if err := rows.Scan(&ev.ID, &reminderType, &ev.Day, &ev.CompletedAt, &ev.ScheduledFor, &ev.DelayMs); err != nil {
			return nil, err
		}
		ev.ReminderType = models.BreakType(reminderType)
		events = append(events, ev)
	}
	return events, rows.Err()
}
