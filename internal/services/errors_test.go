package services_test

import (
	"errors"
	"fmt"
	"testing"

	"mediaspawner/internal/services"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	cause := fmt.Errorf("unexpected token")
	err := services.Wrap(services.ErrParse, "import", "parse", "line 3", cause)
	if !errors.Is(err, services.ErrParse) {
		t.Fatal("expected ErrParse classification")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to stay unwrappable")
	}
	want := "parse failed: import: parse: line 3: unexpected token"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrEmptyDataset, "export", "", "no profiles or assets to export", nil)
	if !errors.Is(err, services.ErrEmptyDataset) {
		t.Fatal("expected ErrEmptyDataset classification")
	}
}

func TestWrapDefaultsToMerge(t *testing.T) {
	err := services.Wrap(nil, "import", "persist", "", errors.New("disk full"))
	if !errors.Is(err, services.ErrMerge) {
		t.Fatal("expected nil marker to map to ErrMerge")
	}
}

func TestIsUserError(t *testing.T) {
	if !services.IsUserError(services.Wrap(services.ErrParse, "import", "", "bad json", nil)) {
		t.Fatal("parse failures are user errors")
	}
	if services.IsUserError(services.Wrap(services.ErrSerialization, "export", "", "drift", nil)) {
		t.Fatal("serialization failures are internal bugs, not user errors")
	}
}
