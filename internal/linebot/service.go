package linebot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nattapongw/fieldservice/internal"
	linechatDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/linechat"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
	"github.com/nattapongw/fieldservice/internal/core/events"
	"github.com/nattapongw/fieldservice/internal/storage"
)

// Messenger is the outbound side of the chat platform.
type Messenger interface {
	Reply(ctx context.Context, replyToken string, messages ...Message) error
	Push(ctx context.Context, to string, messages ...Message) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetMessageContent(ctx context.Context, messageID string) (io.ReadCloser, string, error)
}

type AccountRepositoryAPI interface {
	GetByLineUserID(ctx context.Context, lineUserID string) (*linechatDatamodel.LineAccount, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*linechatDatamodel.LineAccount, error)
	UpdateProfile(ctx context.Context, lineUserID, displayName, pictureURL string) error
	SetFollowing(ctx context.Context, lineUserID string, following bool) error
	SetActiveTicket(ctx context.Context, accountID string, ticketID *string) error
}

type FileRepositoryAPI interface {
	CreateStagedFile(ctx context.Context, file *linechatDatamodel.StagedFile) error
	PendingFiles(ctx context.Context, employeeID string) ([]*linechatDatamodel.StagedFile, error)
	LinkPendingFiles(ctx context.Context, employeeID, ticketID string, selectedOnly bool, linkedAt time.Time) (int64, error)
	CountTicketFiles(ctx context.Context, employeeID, ticketID string) (int64, error)
	SetSelected(ctx context.Context, fileID string, selected bool) error
	SetAllSelected(ctx context.Context, employeeID string, selected bool) error
	DeletePendingFiles(ctx context.Context, employeeID string) (int64, error)
}

// TicketDirectoryAPI is the slice of the ticket module the bot needs:
// resolving codes technicians type and suggesting open tickets.
type TicketDirectoryAPI interface {
	GetByID(ctx context.Context, id string) (*ticketDatamodel.Ticket, error)
	GetByCode(ctx context.Context, code string) (*ticketDatamodel.Ticket, error)
	OpenTicketCodes(ctx context.Context, limit int) ([]string, error)
}

// Service is the bot's command router. All conversational state lives
// in the database (line_accounts.active_ticket_id and staged_files),
// so any replica can process any event.
type Service struct {
	accounts  AccountRepositoryAPI
	files     FileRepositoryAPI
	tickets   TicketDirectoryAPI
	messenger Messenger
	store     storage.Store
	eventBus  *events.EventBus
	dedup     *Deduplicator
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(
	accounts AccountRepositoryAPI,
	files FileRepositoryAPI,
	tickets TicketDirectoryAPI,
	messenger Messenger,
	store storage.Store,
	eventBus *events.EventBus,
	dedup *Deduplicator,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:  accounts,
		files:     files,
		tickets:   tickets,
		messenger: messenger,
		store:     store,
		eventBus:  eventBus,
		dedup:     dedup,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleEvent processes one webhook event. It runs on the dispatcher
// workers; failures are logged and never surface back to LINE.
func (s *Service) HandleEvent(ctx context.Context, event WebhookEvent) {
	if event.DeliveryContext.IsRedelivery {
		s.logger.Info("skipping redelivered webhook event", "event_id", event.WebhookEventID)
		return
	}
	if s.dedup.Seen(ctx, event.WebhookEventID) {
		s.logger.Info("skipping duplicate webhook event", "event_id", event.WebhookEventID)
		return
	}

	switch event.Type {
	case EventTypeFollow:
		s.handleFollow(ctx, event)
	case EventTypeUnfollow:
		s.handleUnfollow(ctx, event)
	case EventTypeMessage:
		s.handleMessage(ctx, event)
	default:
		s.logger.Debug("ignoring webhook event", "event_type", event.Type)
	}
}

// handleFollow refreshes an existing mapping. Accounts are never
// provisioned from the bot side: an admin creates the row, with the
// chat user id collected out of band.
func (s *Service) handleFollow(ctx context.Context, event WebhookEvent) {
	account, err := s.accounts.GetByLineUserID(ctx, event.Source.UserID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Info("follow from unmapped line user", "line_user_id", event.Source.UserID)
			s.replyText(ctx, event.ReplyToken, msgWelcomeUnlinked)
			return
		}
		s.logger.Error("failed to resolve line account", "line_user_id", event.Source.UserID, "error", err)
		return
	}

	if err := s.accounts.SetFollowing(ctx, account.LineUserID, true); err != nil {
		s.logger.Error("failed to mark account following", "line_user_id", account.LineUserID, "error", err)
	}

	if profile, err := s.messenger.GetProfile(ctx, account.LineUserID); err != nil {
		s.logger.Warn("failed to fetch line profile", "line_user_id", account.LineUserID, "error", err)
	} else if err := s.accounts.UpdateProfile(ctx, account.LineUserID, profile.DisplayName, profile.PictureURL); err != nil {
		s.logger.Error("failed to update line profile", "line_user_id", account.LineUserID, "error", err)
	}

	s.replyText(ctx, event.ReplyToken, msgWelcomeBack)
}

// handleUnfollow flags the account; the employee mapping is retained
// so a later re-follow picks up where it left off.
func (s *Service) handleUnfollow(ctx context.Context, event WebhookEvent) {
	if err := s.accounts.SetFollowing(ctx, event.Source.UserID, false); err != nil {
		s.logger.Error("failed to mark unfollow", "line_user_id", event.Source.UserID, "error", err)
		return
	}
	s.logger.Info("line user unfollowed", "line_user_id", event.Source.UserID)
}

func (s *Service) handleMessage(ctx context.Context, event WebhookEvent) {
	if event.Message == nil {
		return
	}

	account, err := s.accounts.GetByLineUserID(ctx, event.Source.UserID)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("failed to resolve line account", "line_user_id", event.Source.UserID, "error", err)
		}
		s.replyText(ctx, event.ReplyToken, msgContactAdmin)
		return
	}
	if !account.IsLinked() {
		s.replyText(ctx, event.ReplyToken, msgContactAdmin)
		return
	}

	switch event.Message.Type {
	case MessageTypeText:
		s.handleCommand(ctx, account, event)
	case MessageTypeImage, MessageTypeVideo, MessageTypeFile:
		s.handleUpload(ctx, account, event)
	default:
		s.replyText(ctx, event.ReplyToken, msgHelp)
	}
}

// handleUpload stores the attachment and stages it. With an active
// ticket the file is born linked; otherwise it waits as pending and
// the reply suggests open ticket codes to attach it to.
func (s *Service) handleUpload(ctx context.Context, account *linechatDatamodel.LineAccount, event WebhookEvent) {
	content, contentType, err := s.messenger.GetMessageContent(ctx, event.Message.ID)
	if err != nil {
		s.logger.Error("failed to download message content", "message_id", event.Message.ID, "error", err)
		s.replyText(ctx, event.ReplyToken, msgTryAgain)
		return
	}
	defer content.Close()

	fileURL, err := s.store.Save(ctx, content, contentType)
	if err != nil {
		s.logger.Error("failed to store attachment", "message_id", event.Message.ID, "error", err)
		s.replyText(ctx, event.ReplyToken, msgTryAgain)
		return
	}

	messageID := event.Message.ID
	file := &linechatDatamodel.StagedFile{
		EmployeeID:    *account.EmployeeID,
		FileURL:       fileURL,
		ContentType:   contentType,
		Status:        linechatDatamodel.FileStatusPending,
		LineMessageID: &messageID,
	}

	if account.ActiveTicketID != nil {
		now := s.now()
		file.Status = linechatDatamodel.FileStatusLinked
		file.TicketID = account.ActiveTicketID
		file.LinkedAt = &now
	}

	if err := s.files.CreateStagedFile(ctx, file); err != nil {
		// A duplicate message id means this upload was already staged
		// by an earlier delivery; confirm instead of failing.
		if !isDuplicate(err) {
			s.logger.Error("failed to stage file", "message_id", event.Message.ID, "error", err)
			s.replyText(ctx, event.ReplyToken, msgTryAgain)
			return
		}
		s.logger.Info("upload already staged", "message_id", event.Message.ID)
	}

	if file.Status == linechatDatamodel.FileStatusLinked {
		s.replyText(ctx, event.ReplyToken, msgLinkedToActive)
		return
	}

	codes, err := s.tickets.OpenTicketCodes(ctx, quickReplyTicketLimit)
	if err != nil {
		s.logger.Error("failed to fetch open ticket codes", "error", err)
	}
	s.reply(ctx, event.ReplyToken, NewTextMessage(msgFileStaged).WithQuickReplies(codes...))
}

func (s *Service) reply(ctx context.Context, replyToken string, messages ...Message) {
	if replyToken == "" {
		return
	}
	if err := s.messenger.Reply(ctx, replyToken, messages...); err != nil {
		s.logger.Error("failed to send reply", "error", err)
	}
}

func (s *Service) replyText(ctx context.Context, replyToken, text string) {
	s.reply(ctx, replyToken, NewTextMessage(text))
}

func isNotFound(err error) bool {
	var appErr *internal.AppError
	return errors.As(err, &appErr) && appErr.StatusCode == http.StatusNotFound
}

func isDuplicate(err error) bool {
	var appErr *internal.AppError
	return errors.As(err, &appErr) && appErr.Code == internal.ErrCodeDuplicateRecord
}
