package chat

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ========== Transcript ==========

func TestTranscript_AppendAssignsIncreasingIDs(t *testing.T) {
	tr := NewTranscript()
	a := tr.Append(RoleUser, "hi", time.Now())
	b := tr.Append(RoleAssistant, "hello", time.Now())
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", a.ID, b.ID)
	}
	if tr.Len() != 2 {
		t.Errorf("len = %d, want 2", tr.Len())
	}

	tr.Reset()
	if tr.Len() != 0 {
		t.Fatalf("len after reset = %d, want 0", tr.Len())
	}
	c := tr.Append(RoleUser, "again", time.Now())
	if c.ID != 3 {
		t.Errorf("id after reset = %d, want 3", c.ID)
	}
}

func TestTranscript_MessagesIsACopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(RoleUser, "original", time.Now())

	msgs := tr.Messages()
	msgs[0].Text = "mutated"

	got, ok := tr.Get(1)
	if !ok || got.Text != "original" {
		t.Errorf("transcript changed through copy: %+v", got)
	}
}

// ========== LatencyWindow ==========

func TestLatencyWindow_EmptyShowsPlaceholder(t *testing.T) {
	w := NewLatencyWindow(0)
	if got := w.Display(); got != NoMetric {
		t.Errorf("Display = %q, want %q", got, NoMetric)
	}
	if _, ok := w.Average(); ok {
		t.Error("Average on empty window should report false")
	}
}

func TestLatencyWindow_KeepsLastTen(t *testing.T) {
	w := NewLatencyWindow(DefaultLatencyWindow)
	for i := 1; i <= 25; i++ {
		w.Record(time.Duration(i) * time.Millisecond)
	}
	if w.Len() != 10 {
		t.Fatalf("len = %d, want 10", w.Len())
	}

	// last ten are 16..25, mean 20.5 -> rounds to 21
	if got := w.Display(); got != "21ms" {
		t.Errorf("Display = %q, want 21ms", got)
	}
	avg, _ := w.Average()
	if avg != 20500*time.Microsecond {
		t.Errorf("Average = %v, want 20.5ms", avg)
	}
	if first := w.Samples()[0]; first != 16*time.Millisecond {
		t.Errorf("oldest sample = %v, want 16ms", first)
	}
}

func TestLatencyWindow_RoundsToNearestMillisecond(t *testing.T) {
	w := NewLatencyWindow(10)
	w.Record(100*time.Millisecond + 400*time.Microsecond)
	if got := w.Display(); got != "100ms" {
		t.Errorf("Display = %q, want 100ms", got)
	}
	w.Record(101*time.Millisecond + 600*time.Microsecond)
	// mean 101.0ms
	if got := w.Display(); got != "101ms" {
		t.Errorf("Display = %q, want 101ms", got)
	}
}

func TestLatencyWindow_Reset(t *testing.T) {
	w := NewLatencyWindow(10)
	w.Record(time.Second)
	w.Reset()
	if w.Len() != 0 || w.Display() != NoMetric {
		t.Errorf("window not empty after reset: len=%d display=%q", w.Len(), w.Display())
	}
}

// ========== RenderMessage ==========

func TestRenderMessage_User(t *testing.T) {
	at := time.Date(2026, 10, 18, 15, 4, 0, 0, time.Local)
	node := RenderMessage(Message{ID: 7, Role: RoleUser, Text: "hello", Timestamp: at})

	if node.Class != "user" || node.Label != "You" || node.Avatar != "👤" {
		t.Errorf("user node = %+v", node)
	}
	if node.Time != "03:04 PM" {
		t.Errorf("time = %q, want '03:04 PM'", node.Time)
	}
	if node.ID != 7 || node.Text != "hello" {
		t.Errorf("node = %+v", node)
	}
}

func TestRenderMessage_Assistant(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)
	node := RenderMessage(Message{Role: RoleAssistant, Text: "answer", Timestamp: at})

	if node.Class != "bot" || node.Label != "DocuMind" || node.Avatar != "🤖" {
		t.Errorf("bot node = %+v", node)
	}
	if node.Time != "09:30 AM" {
		t.Errorf("time = %q, want '09:30 AM'", node.Time)
	}
}

// ========== Export ==========

func TestBuildExport_Empty(t *testing.T) {
	_, err := BuildExport(nil, 0, time.Now())
	if !errors.Is(err, ErrNothingToExport) {
		t.Errorf("err = %v, want ErrNothingToExport", err)
	}
}

func TestBuildExport_Format(t *testing.T) {
	at := time.Date(2026, 10, 18, 15, 4, 5, 0, time.Local)
	msgs := []Message{
		{ID: 1, Role: RoleUser, Text: "What is covered?", Timestamp: at},
		{ID: 2, Role: RoleAssistant, Text: "Everything.", Timestamp: at.Add(time.Minute)},
	}

	exp, err := BuildExport(msgs, 1, at)
	if err != nil {
		t.Fatalf("BuildExport failed: %v", err)
	}

	rule := strings.Repeat("=", 50)
	want := "DocuMind Enterprise - Conversation Export\n" +
		"Exported: 10/18/2026, 3:04:05 PM\n" +
		"Total Questions: 1\n\n" +
		rule + "\n\n" +
		"[03:04 PM] User:\nWhat is covered?" +
		"\n\n" + rule + "\n\n" +
		"[03:05 PM] DocuMind:\nEverything."
	if exp.Text != want {
		t.Errorf("export text mismatch:\ngot:\n%s\nwant:\n%s", exp.Text, want)
	}
	if exp.FileName != ExportFileName(at) {
		t.Errorf("file name = %q", exp.FileName)
	}
}

func TestExportFileName(t *testing.T) {
	at := time.UnixMilli(1760799845123)
	if got := ExportFileName(at); got != "documind-export-1760799845123.txt" {
		t.Errorf("ExportFileName = %q", got)
	}
}
