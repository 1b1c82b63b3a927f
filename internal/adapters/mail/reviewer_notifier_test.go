package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
	gomail "github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invitation() domain.ReviewInvitation {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.ReviewInvitation{
		Reviewer:   domain.User{UserID: "u1", Name: "Ada Reviewer", Email: "ada@example.org"},
		Submission: domain.Submission{SubmissionID: "s1", Title: "On <marginalia>"},
		Journal:    domain.Journal{JournalID: "j1", Path: "jms", Name: "JMS"},
		Assignment: domain.ReviewAssignment{AssignmentID: "a1", DateDue: &due},
	}
}

func TestNewReviewerNotifier_FallsBackToLog(t *testing.T) {
	n := NewReviewerNotifier(config.SMTPConfig{}, "http://portal")
	assert.IsType(t, LogNotifier{}, n)
	assert.NoError(t, n.NotifyReviewerInvited(context.Background(), invitation()))

	n = NewReviewerNotifier(config.SMTPConfig{Host: "smtp.example.org", Port: 587, From: "noreply@example.org"}, "http://portal")
	assert.IsType(t, &SMTPNotifier{}, n)
}

func TestSMTPNotifier_BuildsInvitation(t *testing.T) {
	var sent *gomail.Message
	n := &SMTPNotifier{
		from:      "JMS <noreply@example.org>",
		portalURL: "https://portal.example.org",
		send: func(m *gomail.Message) error {
			sent = m
			return nil
		},
	}

	require.NoError(t, n.NotifyReviewerInvited(context.Background(), invitation()))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"JMS <noreply@example.org>"}, sent.GetHeader("From"))
	assert.Equal(t, []string{"[JMS] Invitation to review: On <marginalia>"}, sent.GetHeader("Subject"))

	require.Len(t, sent.GetHeader("To"), 1)
	assert.Contains(t, sent.GetHeader("To")[0], "<ada@example.org>")

	link := n.assignmentURL(invitation())
	assert.Equal(t, "https://portal.example.org/jms/reviews/a1", link)
	text := invitationText(invitation(), link)
	assert.Contains(t, text, link)
	assert.Contains(t, text, "due on 2025-03-01")
	assert.Contains(t, invitationHTML(invitation(), link), "On &lt;marginalia&gt;")
}

func TestSMTPNotifier_Failures(t *testing.T) {
	boom := errors.New("relay refused")
	n := &SMTPNotifier{from: "noreply@example.org", send: func(*gomail.Message) error { return boom }}

	err := n.NotifyReviewerInvited(context.Background(), invitation())
	assert.ErrorIs(t, err, boom)

	inv := invitation()
	inv.Reviewer.Email = ""
	assert.Error(t, n.NotifyReviewerInvited(context.Background(), inv))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.NotifyReviewerInvited(ctx, invitation()), context.Canceled)
}
