package entity

import "strings"

// Member represents one extracted membership-form record for data transfer
// between layers. ID is assigned by the roster writer at serialization time
// and is empty on draft records.
type Member struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Designation    string `json:"designation,omitempty"`
	Birthdate      string `json:"birthdate,omitempty"`   // YYYY-MM-DD
	Anniversary    string `json:"anniversary,omitempty"` // YYYY-MM-DD
	WhatsappNumber string `json:"whatsapp_number"`
	GroupName      string `json:"group_name"`
	City           string `json:"city,omitempty"`
	PhotoFileName  string `json:"photo_file_name,omitempty"`
}

// Key is the identity tuple used for deduplication.
type Key struct {
	Name  string
	Phone string
}

// Key returns the trimmed (name, whatsapp_number) dedup tuple.
func (m *Member) Key() Key {
	return Key{
		Name:  strings.TrimSpace(m.Name),
		Phone: strings.TrimSpace(m.WhatsappNumber),
	}
}

// Columns is the fixed CSV column order for roster files.
var Columns = []string{
	"id", "name", "designation", "birthdate", "anniversary",
	"whatsapp_number", "group_name", "city", "photo_file_name",
}

// Row serializes the member in Columns order.
func (m *Member) Row() []string {
	return []string{
		m.ID, m.Name, m.Designation, m.Birthdate, m.Anniversary,
		m.WhatsappNumber, m.GroupName, m.City, m.PhotoFileName,
	}
}

// FromRow builds a member from a header-keyed row map, as produced by the
// roster reader and the sheet client. Missing keys yield empty fields.
func FromRow(row map[string]string) Member {
	return Member{
		ID:             row["id"],
		Name:           row["name"],
		Designation:    row["designation"],
		Birthdate:      row["birthdate"],
		Anniversary:    row["anniversary"],
		WhatsappNumber: row["whatsapp_number"],
		GroupName:      row["group_name"],
		City:           row["city"],
		PhotoFileName:  row["photo_file_name"],
	}
}
