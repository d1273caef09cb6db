package linebot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	linechatDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/linechat"
	"github.com/nattapongw/fieldservice/internal/core/events"
)

// Technicians type codes as "PDE-12", "pde-12" or just "12".
var ticketCodePattern = regexp.MustCompile(`(?i)^(?:pde-)?(\d+)$`)

const quickReplyTicketLimit = 10

// Reply strings. Field technicians work in Thai; the unlinked-account
// message carries an English tail for contractors.
const (
	msgContactAdmin    = "บัญชีนี้ยังไม่ได้ผูกกับพนักงาน กรุณาติดต่อผู้ดูแลระบบ (account not linked, contact an admin)"
	msgWelcomeUnlinked = "สวัสดีค่ะ กรุณาติดต่อผู้ดูแลระบบเพื่อผูกบัญชีก่อนเริ่มใช้งาน"
	msgWelcomeBack     = "ยินดีต้อนรับกลับมาค่ะ"
	msgTryAgain        = "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง"
	msgFileStaged      = "รับไฟล์แล้ว พิมพ์เลขใบงานเพื่อแนบไฟล์ เช่น PDE-12"
	msgLinkedToActive  = "แนบไฟล์เข้าใบงานที่กำลังทำอยู่แล้ว พิมพ์ เสร็จ เมื่อจบงาน"
	msgNoPendingFiles  = "ไม่มีไฟล์ค้างอยู่"
	msgNoActiveTicket  = "ยังไม่มีใบงานที่กำลังทำอยู่"

	msgHelp = "คำสั่งที่ใช้ได้:\n" +
		"ส่งรูปหรือไฟล์เพื่อแนบเข้าใบงาน\n" +
		"พิมพ์เลขใบงาน เช่น PDE-12 เพื่อแนบไฟล์ที่ค้างอยู่\n" +
		"list ดูไฟล์ที่ค้างอยู่\n" +
		"select <n> เลือกเฉพาะบางไฟล์\n" +
		"select-all / clear-selection เลือกหรือยกเลิกทั้งหมด\n" +
		"delete-all ลบไฟล์ที่ค้างอยู่\n" +
		"เสร็จ เมื่อส่งไฟล์ครบแล้ว"
)

func (s *Service) handleCommand(ctx context.Context, account *linechatDatamodel.LineAccount, event WebhookEvent) {
	text := strings.TrimSpace(event.Message.Text)
	lower := strings.ToLower(text)

	switch {
	case ticketCodePattern.MatchString(text):
		s.linkToTicket(ctx, account, normalizeTicketCode(text), event.ReplyToken)
	case lower == "done" || text == "เสร็จ":
		s.finishSubmission(ctx, account, event.ReplyToken)
	case lower == "list" || text == "รายการ":
		s.listPending(ctx, account, event.ReplyToken)
	case strings.HasPrefix(lower, "select "):
		s.selectFile(ctx, account, strings.TrimSpace(text[len("select "):]), event.ReplyToken)
	case lower == "select-all":
		s.setAllSelected(ctx, account, true, event.ReplyToken)
	case lower == "clear-selection":
		s.setAllSelected(ctx, account, false, event.ReplyToken)
	case lower == "delete-all" || text == "ลบทั้งหมด":
		s.deletePending(ctx, account, event.ReplyToken)
	default:
		s.replyText(ctx, event.ReplyToken, msgHelp)
	}
}

func normalizeTicketCode(text string) string {
	match := ticketCodePattern.FindStringSubmatch(strings.TrimSpace(text))
	return "PDE-" + match[1]
}

// linkToTicket attaches the sender's pending uploads to the named
// ticket. Linking leaves the active-ticket pointer alone; with nothing
// pending the code becomes the sender's active ticket instead, so the
// uploads that follow attach themselves.
func (s *Service) linkToTicket(ctx context.Context, account *linechatDatamodel.LineAccount, code, replyToken string) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			s.replyText(ctx, replyToken, fmt.Sprintf("ไม่พบใบงาน %s", code))
			return
		}
		s.logger.Error("failed to resolve ticket code", "code", code, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	pending, err := s.files.PendingFiles(ctx, *account.EmployeeID)
	if err != nil {
		s.logger.Error("failed to list pending files", "employee_id", *account.EmployeeID, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	if len(pending) == 0 {
		if err := s.accounts.SetActiveTicket(ctx, account.ID, &ticket.ID); err != nil {
			s.logger.Error("failed to set active ticket", "account_id", account.ID, "error", err)
			s.replyText(ctx, replyToken, msgTryAgain)
			return
		}
		s.replyText(ctx, replyToken, fmt.Sprintf("เริ่มทำใบงาน %s ไฟล์ที่ส่งหลังจากนี้จะแนบให้อัตโนมัติ พิมพ์ เสร็จ เมื่อจบงาน", ticket.Code))
		return
	}

	selectedOnly := false
	for _, file := range pending {
		if file.Selected {
			selectedOnly = true
			break
		}
	}

	count, err := s.files.LinkPendingFiles(ctx, *account.EmployeeID, ticket.ID, selectedOnly, s.now())
	if err != nil {
		s.logger.Error("failed to link pending files", "employee_id", *account.EmployeeID, "ticket_id", ticket.ID, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	if err := s.eventBus.Publish(ctx, events.NewFilesSubmittedEvent(ticket.ID, ticket.Code, *account.EmployeeID, int(count))); err != nil {
		s.logger.Error("failed to publish files submitted event", "ticket_id", ticket.ID, "error", err)
	}

	s.replyText(ctx, replyToken, fmt.Sprintf("แนบไฟล์ %d รายการเข้าใบงาน %s แล้ว", count, ticket.Code))
}

// finishSubmission closes the sticky session and reports how many
// files went to the ticket overall.
func (s *Service) finishSubmission(ctx context.Context, account *linechatDatamodel.LineAccount, replyToken string) {
	if account.ActiveTicketID == nil {
		s.replyText(ctx, replyToken, msgNoActiveTicket)
		return
	}
	ticketID := *account.ActiveTicketID

	count, err := s.files.CountTicketFiles(ctx, *account.EmployeeID, ticketID)
	if err != nil {
		s.logger.Error("failed to count submitted files", "ticket_id", ticketID, "error", err)
	}

	if err := s.accounts.SetActiveTicket(ctx, account.ID, nil); err != nil {
		s.logger.Error("failed to clear active ticket", "account_id", account.ID, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	ticketCode := ""
	if ticket, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		s.logger.Warn("failed to resolve active ticket", "ticket_id", ticketID, "error", err)
	} else {
		ticketCode = ticket.Code
	}

	if count > 0 && ticketCode != "" {
		if err := s.eventBus.Publish(ctx, events.NewFilesSubmittedEvent(ticketID, ticketCode, *account.EmployeeID, int(count))); err != nil {
			s.logger.Error("failed to publish files submitted event", "ticket_id", ticketID, "error", err)
		}
	}

	if ticketCode == "" {
		s.replyText(ctx, replyToken, fmt.Sprintf("ปิดงานแล้ว ส่งไฟล์ทั้งหมด %d รายการ", count))
		return
	}
	s.replyText(ctx, replyToken, fmt.Sprintf("ปิดงาน %s แล้ว ส่งไฟล์ทั้งหมด %d รายการ", ticketCode, count))
}

func (s *Service) listPending(ctx context.Context, account *linechatDatamodel.LineAccount, replyToken string) {
	pending, err := s.files.PendingFiles(ctx, *account.EmployeeID)
	if err != nil {
		s.logger.Error("failed to list pending files", "employee_id", *account.EmployeeID, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	if len(pending) == 0 {
		s.replyText(ctx, replyToken, msgNoPendingFiles)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ไฟล์ที่ค้างอยู่ %d รายการ\n", len(pending))
	for i, file := range pending {
		mark := ""
		if file.Selected {
			mark = " [เลือกแล้ว]"
		}
		fmt.Fprintf(&b, "%d.%s %s\n", i+1, mark, file.FileURL)
	}
	b.WriteString("พิมพ์เลขใบงานเพื่อแนบไฟล์")

	s.replyText(ctx, replyToken, b.String())
}

// selectFile marks the n-th pending file (1-based, oldest first) so a
// later ticket code links only the chosen ones.
func (s *Service) selectFile(ctx context.Context, account *linechatDatamodel.LineAccount, arg, replyToken string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		s.replyText(ctx, replyToken, "ใช้คำสั่ง select ตามด้วยลำดับไฟล์ เช่น select 2")
		return
	}

	pending, err := s.files.PendingFiles(ctx, *account.EmployeeID)
	if err != nil {
		s.logger.Error("failed to list pending files", "employee_id", *account.EmployeeID, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	if n > len(pending) {
		s.replyText(ctx, replyToken, fmt.Sprintf("มีไฟล์ค้างอยู่ %d รายการ เลือกได้ไม่เกินนั้น", len(pending)))
		return
	}

	if err := s.files.SetSelected(ctx, pending[n-1].ID, true); err != nil {
		s.logger.Error("failed to select file", "file_id", pending[n-1].ID, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	s.replyText(ctx, replyToken, fmt.Sprintf("เลือกไฟล์ที่ %d แล้ว", n))
}

func (s *Service) setAllSelected(ctx context.Context, account *linechatDatamodel.LineAccount, selected bool, replyToken string) {
	if err := s.files.SetAllSelected(ctx, *account.EmployeeID, selected); err != nil {
		s.logger.Error("failed to update selection", "employee_id", *account.EmployeeID, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	if selected {
		s.replyText(ctx, replyToken, "เลือกไฟล์ที่ค้างอยู่ทั้งหมดแล้ว")
		return
	}
	s.replyText(ctx, replyToken, "ยกเลิกการเลือกทั้งหมดแล้ว")
}

func (s *Service) deletePending(ctx context.Context, account *linechatDatamodel.LineAccount, replyToken string) {
	count, err := s.files.DeletePendingFiles(ctx, *account.EmployeeID)
	if err != nil {
		s.logger.Error("failed to delete pending files", "employee_id", *account.EmployeeID, "error", err)
		s.replyText(ctx, replyToken, msgTryAgain)
		return
	}

	s.replyText(ctx, replyToken, fmt.Sprintf("ลบไฟล์ที่ค้างอยู่ %d รายการแล้ว", count))
}
