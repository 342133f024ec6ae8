package radius

import "testing"

func TestTotalOctets(t *testing.T) {
	tests := []struct {
		name      string
		octets    uint32
		gigawords uint32
		want      int64
	}{
		{"zero", 0, 0, 0},
		{"octets only", 1000, 0, 1000},
		{"one gigaword", 1000, 1, 4294968296},
		{"max octets", 0xFFFFFFFF, 0, 4294967295},
		{"both max-ish", 0xFFFFFFFF, 2, 12884901887},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalOctets(tt.octets, tt.gigawords); got != tt.want {
				t.Errorf("TotalOctets(%d, %d) = %d, want %d", tt.octets, tt.gigawords, got, tt.want)
			}
		})
	}
}

func TestAccountingAttributes_Totals(t *testing.T) {
	attrs := &AccountingAttributes{
		InputOctets:     1000,
		InputGigawords:  1,
		OutputOctets:    500,
		OutputGigawords: 0,
	}
	if got := attrs.TotalInputOctets(); got != 4294968296 {
		t.Errorf("TotalInputOctets = %d, want 4294968296", got)
	}
	if got := attrs.TotalOutputOctets(); got != 500 {
		t.Errorf("TotalOutputOctets = %d, want 500", got)
	}
}

func TestDictionaryNames(t *testing.T) {
	if got := AttributeName(AttrTypeUserName); got != "User-Name" {
		t.Errorf("AttributeName(1) = %q", got)
	}
	if got := AttributeName(200); got != "Attr-200" {
		t.Errorf("AttributeName(200) = %q", got)
	}
	if got := VendorName(VendorMikrotik); got != "MikroTik" {
		t.Errorf("VendorName = %q", got)
	}
	if got := StatusTypeName(3); got != "Interim-Update" {
		t.Errorf("StatusTypeName(3) = %q", got)
	}
	if got := TerminateCauseName(0); got != "User-Request" {
		t.Errorf("TerminateCauseName(0) = %q", got)
	}
	if got := TerminateCauseName(4); got != "Idle-Timeout" {
		t.Errorf("TerminateCauseName(4) = %q", got)
	}
}
