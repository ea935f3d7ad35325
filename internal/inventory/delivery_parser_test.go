package inventory

import "testing"

const sampleNote = `
Supplier: CV Tani Makmur

Item | Quantity | Unit
-----|----------|-----
Beras Premium | 25 | kg
Telur Ayam | 12,5 | kg
Minyak Goreng | 10 | l

Total | 47.5 |
`

func TestParseDeliveryNote(t *testing.T) {
	resp, err := ParseDeliveryNote(sampleNote)
	if err != nil {
		t.Fatalf("ParseDeliveryNote returned error: %v", err)
	}

	if resp.Source != "CV Tani Makmur" {
		t.Fatalf("Source = %q, want %q", resp.Source, "CV Tani Makmur")
	}
	if len(resp.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(resp.Items))
	}

	if resp.Items[0].Name != "Beras Premium" || resp.Items[0].Quantity != 25 || resp.Items[0].Unit != "kg" {
		t.Fatalf("first item = %+v", resp.Items[0])
	}
	// comma decimal separator
	if resp.Items[1].Quantity != 12.5 {
		t.Fatalf("second item quantity = %v, want 12.5", resp.Items[1].Quantity)
	}
	if resp.Items[2].Unit != "l" {
		t.Fatalf("third item unit = %q, want l", resp.Items[2].Unit)
	}
}

func TestParseDeliveryNoteEmpty(t *testing.T) {
	if _, err := ParseDeliveryNote("no table here at all"); err == nil {
		t.Fatal("expected an error for a note without item rows")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Beras Premium 25 KG", "beras premium"},
		{"TELUR AYAM", "telur ayam"},
		{"Minyak Goreng 2l", "minyak goreng"},
		{"  Gula  Pasir ", "gula pasir"},
	}
	for _, tc := range cases {
		if got := normalizeName(tc.in); got != tc.want {
			t.Fatalf("normalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
