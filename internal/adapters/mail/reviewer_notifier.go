package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/middleware"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
	gomail "github.com/go-mail/mail/v2"
)

const dialTimeout = 10 * time.Second

// SMTPNotifier mails reviewer invitations through an SMTP relay.
type SMTPNotifier struct {
	from      string
	portalURL string
	send      func(*gomail.Message) error
}

// NewReviewerNotifier returns an SMTP notifier, or a LogNotifier when SMTP is not configured.
func NewReviewerNotifier(cfg config.SMTPConfig, portalURL string) portssvc.ReviewerNotifier {
	if !cfg.Enabled() {
		return LogNotifier{}
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.StartTLSPolicy = gomail.MandatoryStartTLS
	d.Timeout = dialTimeout
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify,
	}

	return &SMTPNotifier{
		from:      cfg.From,
		portalURL: portalURL,
		send:      func(m *gomail.Message) error { return d.DialAndSend(m) },
	}
}

// NotifyReviewerInvited sends the invitation to the reviewer's e-mail address.
func (n *SMTPNotifier) NotifyReviewerInvited(ctx context.Context, inv domain.ReviewInvitation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(inv.Reviewer.Email) == "" {
		return fmt.Errorf("reviewer %s has no e-mail address", inv.Reviewer.UserID)
	}

	m := n.buildMessage(inv)
	if err := n.send(m); err != nil {
		return fmt.Errorf("sending invitation for assignment %s: %w", inv.Assignment.AssignmentID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Reviewer invitation sent",
		slog.String("assignment_id", inv.Assignment.AssignmentID),
		slog.String("reviewer_id", inv.Reviewer.UserID))
	return nil
}

func (n *SMTPNotifier) buildMessage(inv domain.ReviewInvitation) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetAddressHeader("To", inv.Reviewer.Email, inv.Reviewer.Name)
	m.SetHeader("Subject", fmt.Sprintf("[%s] Invitation to review: %s", inv.Journal.Name, inv.Submission.Title))
	m.SetBody("text/plain", invitationText(inv, n.assignmentURL(inv)))
	m.AddAlternative("text/html", invitationHTML(inv, n.assignmentURL(inv)))
	return m
}

func (n *SMTPNotifier) assignmentURL(inv domain.ReviewInvitation) string {
	return fmt.Sprintf("%s/%s/reviews/%s", n.portalURL, inv.Journal.Path, inv.Assignment.AssignmentID)
}

func dueLine(inv domain.ReviewInvitation) string {
	if inv.Assignment.DateDue == nil {
		return ""
	}
	return "The review is due on " + inv.Assignment.DateDue.Format(domain.DateLayout) + "."
}

func invitationText(inv domain.ReviewInvitation, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", inv.Reviewer.Name)
	fmt.Fprintf(&b, "You have been invited to review %q for %s.\n", inv.Submission.Title, inv.Journal.Name)
	if due := dueLine(inv); due != "" {
		b.WriteString(due + "\n")
	}
	fmt.Fprintf(&b, "\nPlease accept or decline the invitation at %s\n", link)
	return b.String()
}

func invitationHTML(inv domain.ReviewInvitation, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(inv.Reviewer.Name))
	fmt.Fprintf(&b, "<p>You have been invited to review <strong>%s</strong> for %s.</p>",
		html.EscapeString(inv.Submission.Title), html.EscapeString(inv.Journal.Name))
	if due := dueLine(inv); due != "" {
		fmt.Fprintf(&b, "<p>%s</p>", due)
	}
	fmt.Fprintf(&b, `<p><a href="%s">Accept or decline the invitation</a></p>`, html.EscapeString(link))
	return b.String()
}

// LogNotifier records invitations in the log instead of mailing them.
type LogNotifier struct{}

func (LogNotifier) NotifyReviewerInvited(ctx context.Context, inv domain.ReviewInvitation) error {
	middleware.GetLoggerFromCtx(ctx).Info("Reviewer invited (mail delivery disabled)",
		slog.String("assignment_id", inv.Assignment.AssignmentID),
		slog.String("reviewer_id", inv.Reviewer.UserID),
		slog.String("submission_id", inv.Submission.SubmissionID))
	return nil
}
