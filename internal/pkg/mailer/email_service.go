package mailer

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"jewelry-assistant-be/pkg/assistant/preference"
)

// StaffMailer emails the shop staff when a shopper asks for a person.
type StaffMailer struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	staffEmail  string
}

func NewStaffMailer(host string, port int, username, password, senderEmail, senderName, staffEmail string) *StaffMailer {
	return &StaffMailer{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
		staffEmail:  staffEmail,
	}
}

func (s *StaffMailer) NotifyHandoff(_ context.Context, sessionId string, prefs preference.Preferences) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", s.staffEmail)
	m.SetHeader("Subject", fmt.Sprintf("Shopper needs assistance (session %s)", sessionId))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A shopper asked to speak with staff</h2>
			<p>Session: <strong>%s</strong></p>
			<p>What they were looking for so far:</p>
			%s
			<p>Please pick up the conversation as soon as possible.</p>
		</div>
	`, sessionId, preferencesTable(prefs))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send handoff notice for session %s: %v\n", sessionId, err)
		return err
	}

	fmt.Printf("[MAILER] Handoff notice sent for session %s\n", sessionId)
	return nil
}

func preferencesTable(prefs preference.Preferences) string {
	rows := []struct {
		label string
		value *string
	}{
		{"Occasion", prefs.Occasion},
		{"Recipient", prefs.Recipient},
		{"Category", prefs.Category},
		{"Metal", prefs.Metal},
		{"Design", prefs.DesignType},
		{"Style", prefs.Style},
		{"Gemstone", prefs.Gemstone},
	}

	var b strings.Builder
	b.WriteString("<ul>")
	known := 0
	for _, row := range rows {
		if row.value == nil {
			continue
		}
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", row.label, *row.value)
		known++
	}
	if prefs.BudgetMax != nil {
		fmt.Fprintf(&b, "<li><strong>Budget:</strong> up to $%.0f</li>", *prefs.BudgetMax)
		known++
	}
	b.WriteString("</ul>")

	if known == 0 {
		return "<p>No preferences captured yet.</p>"
	}
	return b.String()
}
