package sheet

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jsg-federation/memberbook/internal/entity"
)

func memberRow(m entity.Member) map[string]string {
	row := make(map[string]string, len(entity.Columns))
	for i, col := range entity.Columns {
		row[col] = m.Row()[i]
	}
	return row
}

func TestAppendRowsCreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.xlsx")
	c := NewClient(path, "", nil)

	rows := []map[string]string{
		memberRow(entity.Member{ID: "1", Name: "Ramesh Kumar", WhatsappNumber: "9876543210", GroupName: "JSG Jaipur"}),
		memberRow(entity.Member{ID: "2", Name: "Suresh Jain", WhatsappNumber: "9123456789", City: "Mumbai"}),
	}
	if err := c.AppendRows(rows); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}

	got, err := c.GetMembers()
	if err != nil {
		t.Fatalf("GetMembers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	if got[0]["name"] != "Ramesh Kumar" || got[0]["whatsapp_number"] != "9876543210" {
		t.Errorf("row 0 = %v", got[0])
	}
	if got[1]["city"] != "Mumbai" || got[1]["group_name"] != "" {
		t.Errorf("row 1 = %v, want blank group coerced to empty string", got[1])
	}
}

func TestAppendRowsExtendsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.xlsx")
	c := NewClient(path, "JSG Members", nil)

	if err := c.AppendRows([]map[string]string{
		memberRow(entity.Member{ID: "1", Name: "Ramesh Kumar", WhatsappNumber: "9876543210"}),
	}); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendRows([]map[string]string{
		memberRow(entity.Member{ID: "2", Name: "Suresh Jain", WhatsappNumber: "9123456789"}),
	}); err != nil {
		t.Fatal(err)
	}

	got, err := c.GetMembers()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("rows after second append = %d, want 2", len(got))
	}
	if got[1]["id"] != "2" {
		t.Errorf("appended row id = %q, want 2", got[1]["id"])
	}
}

func TestAppendRowsNoRowsIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.xlsx")
	c := NewClient(path, "", nil)
	if err := c.AppendRows(nil); err != nil {
		t.Fatalf("AppendRows(nil): %v", err)
	}
	// No workbook should have been created.
	if _, err := excelize.OpenFile(path); err == nil {
		t.Error("empty append created a workbook")
	}
}

func TestGetMembersWorksheetFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.xlsx")

	// Data lives on the default first sheet under a different name.
	f := excelize.NewFile()
	ws := f.GetSheetName(0)
	_ = f.SetCellValue(ws, "A1", "name")
	_ = f.SetCellValue(ws, "B1", "whatsapp_number")
	_ = f.SetCellValue(ws, "A2", "Ramesh Kumar")
	_ = f.SetCellValue(ws, "B2", "9876543210")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	c := NewClient(path, "Missing Worksheet", nil)
	got, err := c.GetMembers()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0]["name"] != "Ramesh Kumar" {
		t.Errorf("fallback read = %v, want the first sheet's row", got)
	}
}
