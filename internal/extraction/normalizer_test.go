package extraction

import "testing"

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"KEELLS SUPER - NUGEGODA", "Keells"},
		{"Cargills Food City", "Cargills Food City"},
		{"FOOD CITY KOTTAWA", "Cargills Food City"},
		{"MCDONALD'S #12345", "McDonald's"},
		{"UBER *TRIP", "Uber"},
		{"POS ARPICO SUPERCENTRE", "Arpico Supercentre"},
		{"Abans PLC", "Abans"},
		{"ROYAL BAKERY (PVT) LTD", "Royal Bakery"},
		{"MODEL STORES", "Model Stores"},
		{"MAIN ST CAFE 99887766", "Main ST Cafe"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			if got := NormalizeMerchant(tc.raw); got != tc.want {
				t.Errorf("NormalizeMerchant(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestFormatMerchantNameTruncates(t *testing.T) {
	long := "THE VERY LONG NAMED NEIGHBOURHOOD GENERAL STORE AND PHARMACY OUTLET"
	if got := formatMerchantName(long); len(got) > 50 {
		t.Errorf("formatMerchantName length = %d, want <= 50", len(got))
	}
}
