package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveDecided   = "leave.decided"
	EventTypeFilesSubmitted = "ticket.files_submitted"
)

// LeaveDecidedEvent fires when a leave request is approved or rejected.
// Subscribers notify the employee over their linked chat account.
type LeaveDecidedEvent struct {
	BaseEvent
	LeaveRequestID string `json:"leave_request_id"`
	EmployeeID     string `json:"employee_id"`
	Status         string `json:"status"`
	DecidedBy      string `json:"decided_by"`
	RejectReason   string `json:"reject_reason,omitempty"`
}

func NewLeaveDecidedEvent(leaveRequestID, employeeID, status, decidedBy, rejectReason string) *LeaveDecidedEvent {
	return &LeaveDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"leave_request_id": leaveRequestID,
				"employee_id":      employeeID,
				"status":           status,
				"decided_by":       decidedBy,
				"reject_reason":    rejectReason,
			},
		},
		LeaveRequestID: leaveRequestID,
		EmployeeID:     employeeID,
		Status:         status,
		DecidedBy:      decidedBy,
		RejectReason:   rejectReason,
	}
}

// FilesSubmittedEvent fires when a technician finishes linking staged
// files to a ticket through the chat bot.
type FilesSubmittedEvent struct {
	BaseEvent
	TicketID   string `json:"ticket_id"`
	TicketCode string `json:"ticket_code"`
	EmployeeID string `json:"employee_id"`
	FileCount  int    `json:"file_count"`
}

func NewFilesSubmittedEvent(ticketID, ticketCode, employeeID string, fileCount int) *FilesSubmittedEvent {
	return &FilesSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeFilesSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":   ticketID,
				"ticket_code": ticketCode,
				"employee_id": employeeID,
				"file_count":  fileCount,
			},
		},
		TicketID:   ticketID,
		TicketCode: ticketCode,
		EmployeeID: employeeID,
		FileCount:  fileCount,
	}
}
