package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result := CheckDirectoryAccess("test", file)
	if result.Passed {
		t.Fatalf("expected failure, got %+v", result)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("one byte should always be available: %+v", result)
	}
	if result := CheckFreeSpace("space", dir, 1<<62); result.Passed {
		t.Fatalf("four exabytes should never be available: %+v", result)
	}
}

func TestCheckBackupEndpoint(t *testing.T) {
	ok := CheckBackupEndpoint(context.Background(), func(context.Context) error { return nil })
	if !ok.Passed {
		t.Fatalf("expected pass, got %+v", ok)
	}
	bad := CheckBackupEndpoint(context.Background(), func(context.Context) error {
		return errors.New("connection refused")
	})
	if bad.Passed || bad.Detail != "connection refused" {
		t.Fatalf("expected failure with detail, got %+v", bad)
	}
}
