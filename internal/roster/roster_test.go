package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsg-federation/memberbook/internal/entity"
	"github.com/jsg-federation/memberbook/internal/validate"
)

func newTestWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "members.csv")
	w, err := NewWriter(path, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	return w, path
}

func TestWriterAssignsDenseIDs(t *testing.T) {
	w, path := newTestWriter(t)

	members := []entity.Member{
		{Name: "Ramesh Kumar", WhatsappNumber: "9876543210"},
		{Name: "Suresh Jain", WhatsappNumber: "9123456789"},
		{Name: "Anita Lodha", WhatsappNumber: "9988776655"},
	}
	for _, m := range members {
		if wrote, err := w.Add(m); err != nil || !wrote {
			t.Fatalf("Add(%s) = %v, %v", m.Name, wrote, err)
		}
	}
	if w.Count() != 3 {
		t.Errorf("Count = %d, want 3", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for i, m := range got {
		want := []string{"1", "2", "3"}[i]
		if m.ID != want {
			t.Errorf("row %d id = %q, want %q", i, m.ID, want)
		}
	}
}

func TestWriterDropsDuplicates(t *testing.T) {
	w, path := newTestWriter(t)

	first := entity.Member{
		Name: "Ramesh Kumar", WhatsappNumber: "9876543210",
		Designation: "President", GroupName: "JSG Jaipur",
	}
	// Same key, every other field different: must be dropped, not merged.
	second := entity.Member{
		Name: " Ramesh Kumar ", WhatsappNumber: "9876543210 ",
		Designation: "Secretary", GroupName: "JSG Mumbai",
		Birthdate: "1980-02-01", City: "Mumbai",
	}

	if wrote, _ := w.Add(first); !wrote {
		t.Fatal("first Add not written")
	}
	if wrote, _ := w.Add(second); wrote {
		t.Error("duplicate key was written")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if got[0].ID != "1" || got[0].Designation != "President" {
		t.Errorf("kept row = %+v, want the first occurrence", got[0])
	}
}

func TestWriterHeader(t *testing.T) {
	w, path := newTestWriter(t)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	wantHeader := strings.Join(entity.Columns, ",")
	if got := strings.SplitN(string(raw), "\n", 2)[0]; strings.TrimRight(got, "\r") != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}
}

func TestWriterFlushMidStream(t *testing.T) {
	w, path := newTestWriter(t)
	defer func() { _ = w.Close() }()

	if _, err := w.Add(entity.Member{Name: "Ramesh Kumar", WhatsappNumber: "9876543210"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	// Rows written before a crash must already be on disk.
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("rows after flush = %d, want 1", len(got))
	}
}

func writeRoster(t *testing.T, path string, members []entity.Member) {
	t.Helper()
	w, err := NewWriter(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range members {
		if _, err := w.Add(m); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCleanFiltersAndRenumbers(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "members.csv")
	output := filepath.Join(dir, "members_clean.csv")

	writeRoster(t, input, []entity.Member{
		{Name: "Ramesh Kumar", WhatsappNumber: "9876543210"},
		{Name: "Pin Code", WhatsappNumber: "1234567890"}, // noise
		{Name: "Suresh Jain", WhatsappNumber: "9123456789"},
	})

	stats, err := Clean(input, output, validate.New(validate.DefaultRules()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Read != 3 || stats.Rejected != 1 || stats.Kept != 2 {
		t.Errorf("stats = %+v, want read 3, rejected 1, kept 2", stats)
	}

	got, err := ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("ids = %q,%q, want dense 1,2", got[0].ID, got[1].ID)
	}
	if got[0].Name != "Ramesh Kumar" || got[1].Name != "Suresh Jain" {
		t.Errorf("unexpected order: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestCleanIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "members.csv")
	once := filepath.Join(dir, "once.csv")
	twice := filepath.Join(dir, "twice.csv")

	writeRoster(t, input, []entity.Member{
		{Name: "Ramesh Kumar", WhatsappNumber: "9876543210", Birthdate: "1980-02-01"},
		{Name: "Whatsapp Number", WhatsappNumber: "1234567890"},
		{Name: "Suresh Jain", WhatsappNumber: "9123456789"},
	})

	v := validate.New(validate.DefaultRules())
	if _, err := Clean(input, once, v, nil); err != nil {
		t.Fatal(err)
	}
	stats, err := Clean(once, twice, v, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Rejected != 0 || stats.Duplicates != 0 {
		t.Errorf("second pass removed rows: %+v", stats)
	}

	first, err := os.ReadFile(once)
	if err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(twice)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("cleaning its own output changed the file")
	}
}

func TestCleanCollapsesDuplicatesAcrossSources(t *testing.T) {
	// Two documents each produced the same member: final table has one row
	// with id 1.
	dir := t.TempDir()
	input := filepath.Join(dir, "members.csv")
	output := filepath.Join(dir, "clean.csv")

	// Simulate a roster assembled from two files without writer-level dedup.
	rows := []entity.Member{
		{ID: "1", Name: "Ramesh Kumar", WhatsappNumber: "9876543210", GroupName: "JSG Jaipur"},
		{ID: "2", Name: "Ramesh Kumar", WhatsappNumber: "9876543210", GroupName: "JSG Mumbai"},
	}
	f, err := os.Create(input)
	if err != nil {
		t.Fatal(err)
	}
	lines := []string{strings.Join(entity.Columns, ",")}
	for _, m := range rows {
		lines = append(lines, strings.Join(m.Row(), ","))
	}
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	stats, err := Clean(input, output, validate.New(validate.DefaultRules()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Duplicates != 1 || stats.Kept != 1 {
		t.Errorf("stats = %+v, want 1 duplicate, 1 kept", stats)
	}
	got, err := ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "1" || got[0].GroupName != "JSG Jaipur" {
		t.Errorf("kept = %+v, want first occurrence with id 1", got)
	}
}
