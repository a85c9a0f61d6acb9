package models

import (
	"strconv"
	"time"
)

// RecipientKind identifies what a praise is addressed to.
type RecipientKind string

const (
	RecipientKindUser    RecipientKind = "user"
	RecipientKindChannel RecipientKind = "channel"
)

// Date layouts exposed to templates.
const (
	DateLayout        = "3:04PM 02 Jan 2006"
	DateNumericLayout = "200601021504"
)

// Praise is the structured form of one praise command.
//
// A Praise is populated once while a message is parsed and is read-only
// afterwards. It is never persisted.
type Praise struct {
	// BotUser is the display name of the identity that was addressed.
	BotUser string `json:"bot_user"`

	// BotUserName is the full name of that identity.
	BotUserName string `json:"bot_user_name"`

	// Recipient is the display name of the praised user or channel.
	Recipient string `json:"recipient"`

	// RecipientName is the full name of the praised user or channel.
	RecipientName string `json:"recipient_name"`

	// RecipientKind tells users and channels apart.
	RecipientKind RecipientKind `json:"recipient_kind"`

	// TemplateName selects the artifact style.
	TemplateName string `json:"template_name"`

	// Message is the reason clause as typed, including a leading "for".
	Message string `json:"message"`

	// Text is the bare reason without "for" or a variable assignment.
	Text string `json:"text"`

	HasFor  bool `json:"has_for"`
	HasWith bool `json:"has_with"`

	// Variables holds caller defaults overridden by in-text assignments.
	Variables map[string]string `json:"variables"`

	BotIdentity       Identity `json:"bot_identity"`
	RecipientIdentity Identity `json:"recipient_identity"`
}

// NewPraise returns an empty praise whose variables are seeded from defaults.
func NewPraise(defaults map[string]string) *Praise {
	vars := make(map[string]string, len(defaults))
	for key, value := range defaults {
		vars[key] = value
	}
	return &Praise{Variables: vars}
}

// Context builds the mapping a template is applied to. Variables win over
// the built-in fields so callers can override anything.
func (p *Praise) Context(now time.Time) map[string]any {
	ctx := map[string]any{
		"message":            p.Message,
		"text":               p.Text,
		"recipient":          p.Recipient,
		"recipient_name":     p.RecipientName,
		"recipient_icon_url": p.RecipientIdentity.IconURL,
		"recipient_kind":     string(p.RecipientKind),
		"bot_user":           p.BotUser,
		"bot_user_name":      p.BotUserName,
		"template_name":      p.TemplateName,
		"has_for":            p.HasFor,
		"has_with":           p.HasWith,
		"date":               now.Format(DateLayout),
		"date_numeric":       now.Format(DateNumericLayout),
	}
	for key, value := range p.Variables {
		ctx[key] = value
	}
	return ctx
}

// Summary returns a short one-line description for logs.
func (p *Praise) Summary() string {
	summary := p.BotUser + " " + strconv.Quote(p.TemplateName) + " " + p.Recipient
	if p.Text != "" {
		summary += ": " + p.Text
	}
	return summary
}
