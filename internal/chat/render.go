package chat

import "time"

// TimeLayout is the clock format shown next to each message ("03:04 PM").
const TimeLayout = "03:04 PM"

// ViewNode is everything the page needs to draw one message bubble.
type ViewNode struct {
	ID     int    `json:"id"`
	Class  string `json:"class"` // "user" or "bot"
	Label  string `json:"label"`
	Avatar string `json:"avatar"`
	Time   string `json:"time"`
	Text   string `json:"text"`
}

// RenderMessage maps a message to its view. It has no side effects.
func RenderMessage(m Message) ViewNode {
	node := ViewNode{
		ID:   m.ID,
		Time: FormatTime(m.Timestamp),
		Text: m.Text,
	}
	if m.Role == RoleUser {
		node.Class = "user"
		node.Label = "You"
		node.Avatar = "👤"
	} else {
		node.Class = "bot"
		node.Label = "DocuMind"
		node.Avatar = "🤖"
	}
	return node
}

// RenderMessages renders a slice in order.
func RenderMessages(msgs []Message) []ViewNode {
	nodes := make([]ViewNode, 0, len(msgs))
	for _, m := range msgs {
		nodes = append(nodes, RenderMessage(m))
	}
	return nodes
}

// FormatTime renders t in the local clock format used by the chat view.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
