package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"documind/internal/api"
	"documind/internal/chat"
)

// NoAnswer replaces an empty answer field.
const NoAnswer = "No answer returned."

// SendQuestion appends the question, asks the backend and appends the reply.
// It blocks until the reply is in and reports whether a request was made:
// blank text and a send while another question is in flight are no-ops.
func (s *Session) SendQuestion(ctx context.Context, text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return false
	}
	s.inFlight = true
	s.sendEnabled = false
	s.totalQuestions++
	userMsg := s.appendLocked(chat.RoleUser, trimmed)
	base := ResolveAPIBase(s.apiBase, s.origin)
	s.mu.Unlock()

	s.emitMessage(userMsg)
	s.notifier.Notify(Event{Type: EventClearInput})
	s.publish()

	start := s.now()
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	resp, err := s.client(base).Query(qctx, text)
	cancel()
	elapsed := s.now().Sub(start)

	var reply, status string
	se, isStatus := api.AsStatusError(err)
	switch {
	case err == nil:
		reply = resp.Answer
		if strings.TrimSpace(reply) == "" {
			reply = NoAnswer
		}
		status = "Answered"
	case isStatus:
		reply = fmt.Sprintf("⚠️ Error %d: %s", se.Code, se.Body)
		status = fmt.Sprintf("Error %d", se.Code)
	default:
		reply = "❌ Connection error: " + describeError(err)
		status = "Error"
	}

	s.mu.Lock()
	s.latency.Record(elapsed)
	botMsg := s.appendLocked(chat.RoleAssistant, reply)
	s.status = status
	s.inFlight = false
	s.sendEnabled = true
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Query failed", "base", base, "elapsed", elapsed, "err", err)
	} else {
		s.logger.Info("Query answered", "elapsed", elapsed)
	}

	s.emitMessage(botMsg)
	s.publish()
	s.notifier.Notify(Event{Type: EventFocus})
	return true
}

// appendLocked adds a message to the transcript and its search index.
func (s *Session) appendLocked(role chat.Role, text string) chat.Message {
	msg := s.transcript.Append(role, text, s.now())
	if err := s.index.Add(msg); err != nil {
		s.logger.Warn("Could not index message", "id", msg.ID, "err", err)
	}
	return msg
}

func (s *Session) emitMessage(m chat.Message) {
	node := chat.RenderMessage(m)
	s.notifier.Notify(Event{Type: EventMessage, Node: &node})
}

// Messages returns the transcript in display order.
func (s *Session) Messages() []chat.Message {
	return s.transcript.Messages()
}

// Export renders the transcript for download. On an empty transcript it
// raises an alert and returns chat.ErrNothingToExport.
func (s *Session) Export() (*chat.Export, error) {
	s.mu.Lock()
	msgs := s.transcript.Messages()
	total := s.totalQuestions
	s.mu.Unlock()

	exp, err := chat.BuildExport(msgs, total, s.now())
	if errors.Is(err, chat.ErrNothingToExport) {
		s.alert("No messages to export")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(Event{Type: EventDownload, FileName: exp.FileName, Text: exp.Text})
	return exp, nil
}

// ClearTranscript empties the conversation. When there are messages, confirm
// must approve; otherwise nothing changes. It reports whether it cleared.
func (s *Session) ClearTranscript(confirm func() bool) bool {
	if s.transcript.Len() > 0 && (confirm == nil || !confirm()) {
		return false
	}

	s.mu.Lock()
	s.transcript.Reset()
	if err := s.index.Reset(); err != nil {
		s.logger.Warn("Could not reset message index", "err", err)
	}
	s.totalQuestions = 0
	s.latency.Reset()
	s.status = chat.NoMetric
	s.mu.Unlock()

	s.notifier.Notify(Event{Type: EventCleared})
	s.publish()
	return true
}

// SearchTranscript returns rendered messages matching query, oldest first.
func (s *Session) SearchTranscript(query string) ([]chat.ViewNode, error) {
	ids, err := s.index.Search(query, chat.DefaultSearchLimit)
	if err != nil {
		return nil, err
	}

	nodes := make([]chat.ViewNode, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.transcript.Get(id); ok {
			nodes = append(nodes, chat.RenderMessage(m))
		}
	}
	s.notifier.Notify(Event{Type: EventSearchResults, Nodes: nodes, Text: query})
	return nodes, nil
}
