package storage

import (
	"strings"
	"testing"
)

func TestObjectKeyKeepsFolderAndExtension(t *testing.T) {
	key := ObjectKey("hostels/42", "Room View.JPG")
	if !strings.HasPrefix(key, "hostels/42/room-view_") {
		t.Fatalf("unexpected key %q", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("expected lowercased extension, got %q", key)
	}
}

func TestObjectKeyDropsPathComponents(t *testing.T) {
	key := ObjectKey("hostels/42", "../../etc/passwd")
	if strings.Contains(key, "..") || !strings.HasPrefix(key, "hostels/42/passwd_") {
		t.Fatalf("path traversal not neutralised: %q", key)
	}
}

func TestValidateContentType(t *testing.T) {
	if err := validateContentType("image/JPEG; charset=binary"); err != nil {
		t.Fatalf("expected jpeg to be accepted: %v", err)
	}
	if err := validateContentType("application/pdf"); err == nil {
		t.Fatalf("expected pdf to be rejected")
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := validateFileSize(0, 100); err == nil {
		t.Fatalf("expected empty file to be rejected")
	}
	if err := validateFileSize(101, 100); err == nil {
		t.Fatalf("expected oversize file to be rejected")
	}
	if err := validateFileSize(100, 100); err != nil {
		t.Fatalf("expected limit to be inclusive: %v", err)
	}
}
