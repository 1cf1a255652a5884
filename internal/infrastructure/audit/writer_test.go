package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWritePage(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	result := map[string]any{
		"buyer":  "สมชาย ใจดี",
		"total":  "1,070.00",
		"amount": "<ห้าร้อยบาทถ้วน>",
	}
	if err := w.WritePage("receipt.pdf", 2, result); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "receipt_output_page_2.json"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	content := string(raw)

	if !strings.Contains(content, "สมชาย ใจดี") {
		t.Errorf("artifact does not contain readable Thai text:\n%s", content)
	}
	if !strings.Contains(content, "<ห้าร้อยบาทถ้วน>") {
		t.Errorf("artifact HTML-escaped the angle brackets:\n%s", content)
	}
	if !strings.Contains(content, "\n  ") {
		t.Errorf("artifact is not indented:\n%s", content)
	}
}

func TestWritePageNeutralizesPathTraversal(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "audit")
	w := NewWriter(dir)

	if err := w.WritePage("../escape.pdf", 1, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "escape_output_page_1.json")); err != nil {
		t.Errorf("expected artifact inside the audit directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "escape_output_page_1.json")); !os.IsNotExist(err) {
		t.Errorf("artifact escaped the audit directory (stat err = %v)", err)
	}
}

func TestWritePageCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "audit")
	w := NewWriter(dir)

	if err := w.WritePage("scan.jpg", 1, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan_output_page_1.json")); err != nil {
		t.Errorf("expected artifact in created directory: %v", err)
	}
}
