// handlers/import_excel.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"p9e.in/farmatrack/models"
)

// Alternate spellings seen in client spreadsheets, keyed by canonical
// attribute. Headers are normalized (lowercase, spaces/underscores stripped)
// before lookup.
var headerAliases = map[string][]string{
	"nome":          {"nome", "name", "farmacia", "ragionesociale", "insegna"},
	"indirizzo":     {"indirizzo", "address", "via"},
	"citta":         {"citta", "città", "city", "comune"},
	"provincia":     {"provincia", "prov", "province"},
	"cap":           {"cap", "postalcode", "zip", "zipcode"},
	"latitudine":    {"latitudine", "lat", "latitude"},
	"longitudine":   {"longitudine", "lng", "lon", "long", "longitude"},
	"telefono":      {"telefono", "phone", "tel"},
	"referente":     {"referente", "contatto", "contact"},
	"codicecliente": {"codicecliente", "clientcode", "codice"},
}

func normalizeHeader(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	header = strings.ReplaceAll(header, " ", "")
	header = strings.ReplaceAll(header, "_", "")
	header = strings.ReplaceAll(header, "-", "")
	return header
}

// mapHeaders resolves each column index to a canonical attribute name.
func mapHeaders(row []string) map[int]string {
	byAlias := map[string]string{}
	for canonical, aliases := range headerAliases {
		for _, a := range aliases {
			byAlias[a] = canonical
		}
	}
	cols := map[int]string{}
	for i, cell := range row {
		if canonical, ok := byAlias[normalizeHeader(cell)]; ok {
			cols[i] = canonical
		}
	}
	return cols
}

// farmacieFromRows turns spreadsheet rows (first row = headers) into
// Farmacia records. Rows without a nome are skipped and counted.
func farmacieFromRows(rows [][]string) (farmacie []models.Farmacia, skipped int) {
	if len(rows) < 2 {
		return nil, 0
	}
	cols := mapHeaders(rows[0])
	for _, row := range rows[1:] {
		var fa models.Farmacia
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			switch cols[i] {
			case "nome":
				fa.Nome = cell
			case "indirizzo":
				fa.Indirizzo = cell
			case "citta":
				fa.Citta = cell
			case "provincia":
				fa.Provincia = cell
			case "cap":
				fa.CAP = cell
			case "latitudine":
				if v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64); err == nil {
					fa.Latitudine = v
				}
			case "longitudine":
				if v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64); err == nil {
					fa.Longitudine = v
				}
			case "telefono":
				fa.Telefono = cell
			case "referente":
				fa.Referente = cell
			case "codicecliente":
				fa.CodiceCliente = cell
			}
		}
		if fa.Nome == "" {
			skipped++
			continue
		}
		farmacie = append(farmacie, fa)
	}
	return farmacie, skipped
}

// ImportFarmacie bulk-imports farmacie from an uploaded .xlsx file.
func (h *Handler) ImportFarmacie(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	wb, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "cannot read workbook: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		http.Error(w, "workbook has no sheets", http.StatusBadRequest)
		return
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		http.Error(w, "cannot read rows: "+err.Error(), http.StatusBadRequest)
		return
	}

	farmacie, skipped := farmacieFromRows(rows)
	imported, err := h.Data.ImportFarmacie(farmacie)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"imported": imported,
		"skipped":  skipped,
	})
}
