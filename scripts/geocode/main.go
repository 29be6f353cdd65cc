// Standalone enrichment tool: fills missing coordinates in a farmacie
// workbook by querying a places API, then writes them back to the file.
// Not part of the running server.
//
//	go run ./scripts/geocode -file farmacie.xlsx
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/xuri/excelize/v2"
)

const defaultEndpoint = "https://nominatim.openstreetmap.org/search"

type placeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func main() {
	file := flag.String("file", "farmacie.xlsx", "workbook with farmacia rows")
	pause := flag.Duration("pause", time.Second, "pause between API calls")
	flag.Parse()

	endpoint := os.Getenv("GEOCODE_URL")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	wb, err := excelize.OpenFile(*file)
	if err != nil {
		log.Fatalf("cannot open %s: %v", *file, err)
	}
	defer wb.Close()

	sheet := wb.GetSheetList()[0]
	rows, err := wb.GetRows(sheet)
	if err != nil {
		log.Fatalf("cannot read rows: %v", err)
	}
	if len(rows) < 2 {
		log.Fatalf("%s has no data rows", *file)
	}

	cols := findColumns(rows[0])
	if cols.indirizzo < 0 || cols.citta < 0 {
		log.Fatalf("workbook needs indirizzo and citta columns")
	}
	if cols.lat < 0 || cols.lng < 0 {
		log.Fatalf("workbook needs latitudine and longitudine columns to write back")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	updated := 0
	for i, row := range rows[1:] {
		if hasCoordinates(row, cols) {
			continue
		}
		address := buildAddress(row, cols)
		if address == "" {
			continue
		}
		point, err := geocode(client, endpoint, address)
		if err != nil {
			log.Printf("row %d (%s): %v", i+2, address, err)
			continue
		}
		// excel rows are 1-based and row 1 is the header
		latCell, _ := excelize.CoordinatesToCellName(cols.lat+1, i+2)
		lngCell, _ := excelize.CoordinatesToCellName(cols.lng+1, i+2)
		wb.SetCellValue(sheet, latCell, point.Lat())
		wb.SetCellValue(sheet, lngCell, point.Lon())
		updated++
		time.Sleep(*pause)
	}

	if err := wb.Save(); err != nil {
		log.Fatalf("cannot save %s: %v", *file, err)
	}
	log.Printf("updated %d rows in %s", updated, *file)
}

type columns struct {
	indirizzo, citta, cap, lat, lng int
}

func findColumns(header []string) columns {
	cols := columns{indirizzo: -1, citta: -1, cap: -1, lat: -1, lng: -1}
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "indirizzo", "address", "via":
			cols.indirizzo = i
		case "citta", "città", "city", "comune":
			cols.citta = i
		case "cap", "zip":
			cols.cap = i
		case "latitudine", "lat", "latitude":
			cols.lat = i
		case "longitudine", "lng", "lon", "longitude":
			cols.lng = i
		}
	}
	return cols
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func hasCoordinates(row []string, cols columns) bool {
	lat, err1 := strconv.ParseFloat(cellAt(row, cols.lat), 64)
	lng, err2 := strconv.ParseFloat(cellAt(row, cols.lng), 64)
	return err1 == nil && err2 == nil && (lat != 0 || lng != 0)
}

func buildAddress(row []string, cols columns) string {
	parts := []string{}
	for _, i := range []int{cols.indirizzo, cols.cap, cols.citta} {
		if v := cellAt(row, i); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func geocode(client *http.Client, endpoint, address string) (orb.Point, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequest(http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return orb.Point{}, err
	}
	req.Header.Set("User-Agent", "farmatrack-geocode")

	resp, err := client.Do(req)
	if err != nil {
		return orb.Point{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return orb.Point{}, fmt.Errorf("geocode API status %d", resp.StatusCode)
	}

	var results []placeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return orb.Point{}, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return orb.Point{}, fmt.Errorf("no match")
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("bad latitude %q", results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("bad longitude %q", results[0].Lon)
	}
	point := orb.Point{lng, lat}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return orb.Point{}, fmt.Errorf("coordinates out of range: %v", point)
	}
	return point, nil
}
