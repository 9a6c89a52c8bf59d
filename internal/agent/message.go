package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/pausa/internal/models"
)

// MessageType names an engine/agent message.
type MessageType string

// Engine to agent.
const (
	TypeScheduleAll          MessageType = "SCHEDULE_ALL"
	TypeScheduleNotification MessageType = "SCHEDULE_NOTIFICATION"
	TypeResetCooldown        MessageType = "RESET_COOLDOWN"
	TypeStartChecking        MessageType = "START_CHECKING"
	TypeCheckTimers          MessageType = "CHECK_TIMERS"
	TypePing                 MessageType = "PING"
)

// Agent to engine.
const (
	TypeNotificationSent MessageType = "NOTIFICATION_SENT"
	TypeSnoozeRequested  MessageType = "SNOOZE_REQUESTED"
	TypePong             MessageType = "PONG"
)

// Message is the wire envelope exchanged with the background agent.
type Message struct {
	Type         MessageType      `json:"type"`
	ReminderType models.BreakType `json:"reminderType,omitempty"`
	Delay        int64            `json:"delay,omitempty"` // milliseconds
	IsRunning    *bool            `json:"isRunning,omitempty"`
}

// Inbound reports whether m flows from the agent to the engine.
func (m Message) Inbound() bool {
	switch m.Type {
	case TypeNotificationSent, TypeSnoozeRequested, TypePong:
		return true
	}
	return false
}

// Validate checks that m is a known message carrying the fields its type needs.
func (m Message) Validate() error {
	switch m.Type {
	case TypeScheduleAll:
		if m.IsRunning == nil {
			return fmt.Errorf("%s requires isRunning", m.Type)
		}
	case TypeScheduleNotification, TypeResetCooldown, TypeNotificationSent, TypeSnoozeRequested:
		if !m.ReminderType.Valid() {
			return fmt.Errorf("%s requires a valid reminderType, got %q", m.Type, m.ReminderType)
		}
	case TypeStartChecking, TypeCheckTimers, TypePing, TypePong:
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
	return nil
}

// Decode parses and validates a JSON message.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("failed to decode agent message: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

func ScheduleAll(running bool) Message {
	return Message{Type: TypeScheduleAll, IsRunning: &running}
}

func ScheduleNotification(t models.BreakType, delay time.Duration) Message {
	return Message{Type: TypeScheduleNotification, ReminderType: t, Delay: delay.Milliseconds()}
}

func ResetCooldown(t models.BreakType) Message {
	return Message{Type: TypeResetCooldown, ReminderType: t}
}

func StartChecking() Message { return Message{Type: TypeStartChecking} }

func CheckTimers() Message { return Message{Type: TypeCheckTimers} }

func Ping() Message { return Message{Type: TypePing} }

func NotificationSent(t models.BreakType) Message {
	return Message{Type: TypeNotificationSent, ReminderType: t}
}

func SnoozeRequested(t models.BreakType) Message {
	return Message{Type: TypeSnoozeRequested, ReminderType: t}
}

func Pong() Message { return Message{Type: TypePong} }
