package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/pausa/internal/models"
)

func (s *Store) AddBreakEvent(ev models.BreakEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO break_events (id, reminder_type, day, completed_at, scheduled_for, delay_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.ReminderType), ev.Day,
		ev.CompletedAt.UTC().Format(time.RFC3339Nano),
		ev.ScheduledFor.UTC().Format(time.RFC3339Nano),
		ev.DelayMs,
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
		WHERE day >= ? AND day <= ?
		ORDER BY completed_at ASC`, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.BreakEvent
	for rows.Next() {
		var ev models.BreakEvent
		var reminderType, completedAt, scheduledFor string
		if err := rows.Scan(&ev.ID, &reminderType, &ev.Day, &completedAt, &scheduledFor, &ev.DelayMs); err != nil {
			return nil, err
		}
		ev.ReminderType = models.BreakType(reminderType)
		if ev.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
			return nil, fmt.Errorf("parsing completed_at of %s: %w", ev.ID, err)
		}
		if ev.ScheduledFor, err = time.Parse(time.RFC3339Nano, scheduledFor); err != nil {
			return nil, fmt.Errorf("parsing scheduled_for of %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
