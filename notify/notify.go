// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import "context"

// Message is a chat message with optional structured attachments.
type Message struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a block of formatted content, optionally carrying
// interactive actions routed back through the callback id.
type Attachment struct {
	Title      string   `json:"title,omitempty"`
	Text       string   `json:"text,omitempty"`
	AuthorName string   `json:"author_name,omitempty"`
	Footer     string   `json:"footer,omitempty"`
	Color      string   `json:"color,omitempty"`
	CallbackID string   `json:"callback_id,omitempty"`
	Fields     []Field  `json:"fields,omitempty"`
	Actions    []Action `json:"actions,omitempty"`
}

// Field is a short titled value rendered inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Action is an interactive button.
type Action struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Text  string `json:"text"`
	Value string `json:"value,omitempty"`
	Style string `json:"style,omitempty"`
}

// Notifier delivers messages to the chat platform. The workflow core calls
// it fire-and-forget: a delivery failure is logged by the caller and never
// rolls back an entity mutation.
type Notifier interface {
	// Post sends a message to a channel (or a user id for a direct message).
	Post(ctx context.Context, team, channel string, msg Message) error
	// PostEphemeral sends a message in the channel that only user sees.
	PostEphemeral(ctx context.Context, team, channel, user string, msg Message) error
}
