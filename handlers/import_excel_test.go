package handlers

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Nome", "nome"},
		{"  Codice Cliente ", "codicecliente"},
		{"postal_code", "postalcode"},
		{"ZIP-CODE", "zipcode"},
		{"Città", "città"},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.expected {
			t.Errorf("normalizeHeader(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestFarmacieFromRows(t *testing.T) {
	rows := [][]string{
		{"Ragione Sociale", "Address", "Città", "PROV", "Zip", "Lat", "Long", "Phone"},
		{"Farmacia Rossi", "Via Dante 4", "Milano", "MI", "20121", "45,4642", "9.19", "0255501234"},
		{"", "Via Vuota 1", "Roma", "RM", "00100", "", "", ""},
		{"Farmacia Bianchi", "Corso Italia 9", "Napoli", "NA", "80100", "", "", ""},
	}

	farmacie, skipped := farmacieFromRows(rows)
	if skipped != 1 {
		t.Errorf("skipped = %d, expected 1 (row without a name)", skipped)
	}
	if len(farmacie) != 2 {
		t.Fatalf("imported %d rows, expected 2", len(farmacie))
	}

	first := farmacie[0]
	if first.Nome != "Farmacia Rossi" || first.Citta != "Milano" || first.Provincia != "MI" || first.CAP != "20121" {
		t.Errorf("unexpected first row: %+v", first)
	}
	// comma decimals from Italian spreadsheets are accepted
	if first.Latitudine != 45.4642 {
		t.Errorf("Latitudine = %v, expected 45.4642", first.Latitudine)
	}
	if first.Longitudine != 9.19 {
		t.Errorf("Longitudine = %v, expected 9.19", first.Longitudine)
	}
	if first.Telefono != "0255501234" {
		t.Errorf("Telefono = %q", first.Telefono)
	}

	second := farmacie[1]
	if second.Latitudine != 0 || second.Longitudine != 0 {
		t.Errorf("missing coordinates should stay zero, got %v/%v", second.Latitudine, second.Longitudine)
	}
}

func TestFarmacieFromRowsHeaderOnly(t *testing.T) {
	farmacie, skipped := farmacieFromRows([][]string{{"Nome", "Indirizzo"}})
	if len(farmacie) != 0 || skipped != 0 {
		t.Errorf("header-only sheet should yield nothing, got %d/%d", len(farmacie), skipped)
	}
}
