package pipeline

import (
	"testing"

	"github.com/jsg-federation/memberbook/internal/entity"
	"github.com/jsg-federation/memberbook/internal/validate"
)

func TestPolicyByName(t *testing.T) {
	for _, name := range []string{"page", "grid", "council"} {
		p, err := PolicyByName(name)
		if err != nil {
			t.Errorf("PolicyByName(%q): %v", name, err)
		}
		if p.Name != name {
			t.Errorf("PolicyByName(%q).Name = %q", name, p.Name)
		}
	}
	if _, err := PolicyByName("bogus"); err == nil {
		t.Error("unknown policy accepted")
	}
}

func TestAccept(t *testing.T) {
	v := validate.New(validate.DefaultRules())

	tests := []struct {
		name   string
		policy Policy
		member entity.Member
		want   bool
	}{
		{"no name", GridPolicy(), entity.Member{WhatsappNumber: "9876543210"}, false},
		{"no phone", GridPolicy(), entity.Member{Name: "Ramesh Kumar"}, false},
		{"grid keeps single-word name", GridPolicy(), entity.Member{Name: "Ramesh", WhatsappNumber: "9876543210"}, true},
		{"council rejects single-word name", CouncilPolicy(), entity.Member{Name: "Ramesh", WhatsappNumber: "9876543210"}, false},
		{"council keeps plausible member", CouncilPolicy(), entity.Member{Name: "Ramesh Kumar", WhatsappNumber: "9876543210"}, true},
		{"council drops committee role", CouncilPolicy(), entity.Member{Name: "Ramesh Kumar", Designation: "Managing Committee", WhatsappNumber: "9876543210"}, false},
		{"grid keeps committee role", GridPolicy(), entity.Member{Name: "Ramesh Kumar", Designation: "Managing Committee", WhatsappNumber: "9876543210"}, true},
		{"page keeps committee role", PagePolicy(), entity.Member{Name: "Ramesh Kumar", Designation: "Managing Committee", WhatsappNumber: "9876543210"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Accept(v, &tt.member); got != tt.want {
				t.Errorf("%s.Accept(%+v) = %v, want %v", tt.policy.Name, tt.member, got, tt.want)
			}
		})
	}
}
