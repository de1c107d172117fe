package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// minimalPDF builds a well-formed PDF with the given number of empty pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// ========== Staging ==========

func TestAdd_CaseInsensitivePDF(t *testing.T) {
	s := NewStaging()
	if err := s.Add(FromBytes("report.PDF", []byte("x"))); err != nil {
		t.Fatalf("report.PDF rejected: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

func TestAdd_RejectsNonPDF(t *testing.T) {
	s := NewStaging()
	err := s.Add(FromBytes("report.docx", []byte("x")))
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("err = %v, want ErrNotPDF", err)
	}
	if s.Len() != 0 {
		t.Errorf("rejected file entered staging set")
	}
}

func TestAdd_RejectsDuplicateName(t *testing.T) {
	s := NewStaging()
	if err := s.Add(FromBytes("report.pdf", []byte("a"))); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	err := s.Add(FromBytes("report.pdf", []byte("b")))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

func TestRemove(t *testing.T) {
	s := NewStaging()
	s.Add(FromBytes("a.pdf", nil))
	s.Add(FromBytes("b.pdf", nil))
	s.Add(FromBytes("c.pdf", nil))

	if !s.Remove("b.pdf") {
		t.Fatal("Remove(b.pdf) = false")
	}
	if s.Remove("missing.pdf") {
		t.Error("Remove(missing.pdf) = true")
	}

	files := s.Files()
	if len(files) != 2 || files[0].Name != "a.pdf" || files[1].Name != "c.pdf" {
		t.Errorf("files = %v, want [a.pdf c.pdf]", names(files))
	}
}

func TestClear(t *testing.T) {
	s := NewStaging()
	s.Add(FromBytes("a.pdf", nil))
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("len after Clear = %d", s.Len())
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manual.pdf")
	if err := os.WriteFile(path, minimalPDF(3), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := FromPath(path)
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}
	if p.Name != "manual.pdf" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Pages != 3 {
		t.Errorf("pages = %d, want 3", p.Pages)
	}

	rc, err := p.Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if int64(len(data)) != p.Size {
		t.Errorf("read %d bytes, size says %d", len(data), p.Size)
	}
}

func TestFromPath_Directory(t *testing.T) {
	if _, err := FromPath(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}

// ========== CountPages ==========

func TestCountPages_Valid(t *testing.T) {
	n, err := CountPages(minimalPDF(2))
	if err != nil {
		t.Fatalf("CountPages failed: %v", err)
	}
	if n != 2 {
		t.Errorf("pages = %d, want 2", n)
	}
}

func TestCountPages_Garbage(t *testing.T) {
	n, err := CountPages([]byte("this is not a pdf"))
	if err == nil {
		t.Error("expected error for non-PDF bytes")
	}
	if n != 0 {
		t.Errorf("pages = %d, want 0", n)
	}
}

// ========== RenderList ==========

func TestRenderList(t *testing.T) {
	files := []PendingUpload{
		{Name: "a.pdf", Size: 1536},
		{Name: "b.pdf", Size: 100},
	}
	items, confirm := RenderList(files)
	if !confirm {
		t.Error("confirm should be enabled for non-empty list")
	}
	if items[0].Size != "1.5 KB" {
		t.Errorf("size = %q, want '1.5 KB'", items[0].Size)
	}
	if items[1].Size != "0.1 KB" {
		t.Errorf("size = %q, want '0.1 KB'", items[1].Size)
	}
}

func TestRenderList_EmptyDisablesConfirm(t *testing.T) {
	items, confirm := RenderList(nil)
	if confirm {
		t.Error("confirm should be disabled for empty list")
	}
	if len(items) != 0 {
		t.Errorf("items = %v", items)
	}
}

// ========== UploadAll ==========

type fakeUploader struct {
	fail  map[string]bool
	order []string
}

func (f *fakeUploader) Upload(ctx context.Context, name string, r io.Reader) error {
	f.order = append(f.order, name)
	io.Copy(io.Discard, r)
	if f.fail[name] {
		return errors.New("boom")
	}
	return nil
}

func TestUploadAll_CountsFailuresWithoutAborting(t *testing.T) {
	up := &fakeUploader{fail: map[string]bool{"b.pdf": true}}
	files := []PendingUpload{
		FromBytes("a.pdf", []byte("1")),
		FromBytes("b.pdf", []byte("2")),
		FromBytes("c.pdf", []byte("3")),
	}

	var seen []string
	res := UploadAll(context.Background(), up, files, func(fr FileResult) {
		seen = append(seen, fr.Name)
	})

	if res.Succeeded != 2 || res.Failed != 1 {
		t.Errorf("result = %d/%d, want 2 succeeded 1 failed", res.Succeeded, res.Failed)
	}
	if got := res.Summary(); got != "✓ 2 uploaded, ✕ 1 failed" {
		t.Errorf("summary = %q", got)
	}
	if len(up.order) != 3 || up.order[0] != "a.pdf" || up.order[2] != "c.pdf" {
		t.Errorf("upload order = %v, want sequential a,b,c", up.order)
	}
	if len(seen) != 3 {
		t.Errorf("onFile called %d times, want 3", len(seen))
	}
	if res.Files[1].OK() {
		t.Error("b.pdf should be marked failed")
	}
}

func TestUploadAll_AllSucceed(t *testing.T) {
	res := UploadAll(context.Background(), &fakeUploader{}, []PendingUpload{FromBytes("a.pdf", nil)}, nil)
	if res.Failed != 0 || res.Succeeded != 1 {
		t.Errorf("result = %+v", res)
	}
	if got := res.Summary(); got != "✓ 1 uploaded" {
		t.Errorf("summary = %q", got)
	}
}

func TestUploadAll_MissingContentCountsAsFailure(t *testing.T) {
	res := UploadAll(context.Background(), &fakeUploader{}, []PendingUpload{{Name: "ghost.pdf"}}, nil)
	if res.Failed != 1 {
		t.Errorf("failed = %d, want 1", res.Failed)
	}
}

func TestProgressText(t *testing.T) {
	if got := ProgressText(3); got != "Uploading 3 file(s)..." {
		t.Errorf("ProgressText = %q", got)
	}
}

func names(files []PendingUpload) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}
