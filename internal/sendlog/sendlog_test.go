package sendlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jsg-federation/memberbook/internal/entity"
)

func TestRecordAndAlreadySent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sendlog.db")

	l, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = l.Close() }()

	m := &entity.Member{Name: "Ramesh Kumar", WhatsappNumber: "9876543210"}

	sent, err := l.AlreadySent(ctx, m.WhatsappNumber, "birthday", "2025-06-15")
	if err != nil {
		t.Fatal(err)
	}
	if sent {
		t.Error("fresh log reports wish as sent")
	}

	if err := l.Record(ctx, m, "birthday", "2025-06-15"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	sent, err = l.AlreadySent(ctx, m.WhatsappNumber, "birthday", "2025-06-15")
	if err != nil {
		t.Fatal(err)
	}
	if !sent {
		t.Error("recorded wish not reported as sent")
	}

	// Same member, different kind and different date are distinct wishes.
	if sent, _ := l.AlreadySent(ctx, m.WhatsappNumber, "anniversary", "2025-06-15"); sent {
		t.Error("different kind reported as sent")
	}
	if sent, _ := l.AlreadySent(ctx, m.WhatsappNumber, "birthday", "2026-06-15"); sent {
		t.Error("different date reported as sent")
	}
}

func TestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sendlog.db")
	m := &entity.Member{Name: "Suresh Jain", WhatsappNumber: "9123456789"}

	l, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Record(ctx, m, "anniversary", "2025-06-15"); err != nil {
		t.Fatal(err)
	}
	firstRun := l.RunID()
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	l2, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = l2.Close() }()

	if l2.RunID() == firstRun {
		t.Error("reopened log reuses the previous run id")
	}
	sent, err := l2.AlreadySent(ctx, m.WhatsappNumber, "anniversary", "2025-06-15")
	if err != nil {
		t.Fatal(err)
	}
	if !sent {
		t.Error("wish from the previous run not visible after reopen")
	}
}

func TestDuplicateRecordRejected(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, filepath.Join(t.TempDir(), "sendlog.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = l.Close() }()

	m := &entity.Member{Name: "Ramesh Kumar", WhatsappNumber: "9876543210"}
	if err := l.Record(ctx, m, "birthday", "2025-06-15"); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(ctx, m, "birthday", "2025-06-15"); err == nil {
		t.Error("duplicate (phone, kind, date) insert accepted")
	}
}
