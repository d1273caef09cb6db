package linebot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	leaveDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/leave"
	"github.com/nattapongw/fieldservice/internal/core/events"
)

const notifyTimeout = 10 * time.Second

// Notifier relays domain events to the affected employee's chat
// account. Employees without a linked, following account are skipped
// silently; notifications are best effort.
type Notifier struct {
	accounts  AccountRepositoryAPI
	messenger Messenger
	logger    *slog.Logger
}

func NewNotifier(accounts AccountRepositoryAPI, messenger Messenger, logger *slog.Logger) *Notifier {
	return &Notifier{
		accounts:  accounts,
		messenger: messenger,
		logger:    logger,
	}
}

func (n *Notifier) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLeaveDecided, n.handleLeaveDecided)
	bus.Subscribe(events.EventTypeFilesSubmitted, n.handleFilesSubmitted)
}

func (n *Notifier) handleLeaveDecided(ctx context.Context, event events.Event) error {
	decided, ok := event.(*events.LeaveDecidedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s event", event.EventType())
	}

	var text string
	switch decided.Status {
	case leaveDatamodel.StatusApproved:
		text = "คำขอลาของคุณได้รับการอนุมัติแล้ว"
	case leaveDatamodel.StatusRejected:
		text = "คำขอลาของคุณไม่ได้รับการอนุมัติ"
		if decided.RejectReason != "" {
			text += "\nเหตุผล: " + decided.RejectReason
		}
	default:
		return nil
	}

	return n.push(decided.EmployeeID, text)
}

func (n *Notifier) handleFilesSubmitted(ctx context.Context, event events.Event) error {
	submitted, ok := event.(*events.FilesSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s event", event.EventType())
	}

	text := fmt.Sprintf("ส่งไฟล์ %d รายการเข้าใบงาน %s เรียบร้อยแล้ว", submitted.FileCount, submitted.TicketCode)
	return n.push(submitted.EmployeeID, text)
}

// push delivers outside any request scope, so it carries its own
// timeout instead of a caller context.
func (n *Notifier) push(employeeID, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	account, err := n.accounts.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if !account.IsFollowing {
		return nil
	}

	if err := n.messenger.Push(ctx, account.LineUserID, NewTextMessage(text)); err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}

	n.logger.Debug("notification pushed", "employee_id", employeeID)
	return nil
}
