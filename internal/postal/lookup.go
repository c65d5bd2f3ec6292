// Package postal canonicalizes resolved addresses against a zipcode
// reference table so the distance lookup gets geocodable input.
package postal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one row of the zipcode directory.
type Entry struct {
	City    string
	Road    string
	Zipcode string
}

// Directory is the postal reference table. It is loaded once at startup
// and read-only afterwards, so it is safe to share across requests.
type Directory struct {
	entries []Entry
}

func NewDirectory(entries []Entry) *Directory {
	return &Directory{entries: entries}
}

// LoadDirectory reads the zipcode table from an xlsx file. The first row
// is a header; CITY, ROAD and ZIPCODE columns are matched by name,
// case-insensitively.
func LoadDirectory(path string) (*Directory, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open zipcode table: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read zipcode table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("zipcode table %s is empty", path)
	}

	cityCol, roadCol, zipCol := -1, -1, -1
	for i, name := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "CITY":
			cityCol = i
		case "ROAD":
			roadCol = i
		case "ZIPCODE":
			zipCol = i
		}
	}
	if cityCol < 0 || roadCol < 0 {
		return nil, fmt.Errorf("zipcode table %s is missing CITY/ROAD columns", path)
	}

	cell := func(row []string, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		e := Entry{
			City:    cell(row, cityCol),
			Road:    cell(row, roadCol),
			Zipcode: cell(row, zipCol),
		}
		if e.Road == "" {
			continue
		}
		entries = append(entries, e)
	}

	return &Directory{entries: entries}, nil
}

func (d *Directory) Len() int {
	return len(d.entries)
}

// MatchRoad returns the first entry whose road name occurs in the address.
func (d *Directory) MatchRoad(addr string) (Entry, bool) {
	for _, e := range d.entries {
		if strings.Contains(addr, e.Road) {
			return e, true
		}
	}
	return Entry{}, false
}

var (
	compactSpaceRe = regexp.MustCompile(`\s+`)
	leadingSepRe   = regexp.MustCompile(`^[,，、]+`)
	leadingZipRe   = regexp.MustCompile(`^\d{3,5}`)
	houseNoPairRe  = regexp.MustCompile(`(\d+)[,、／/.]\d+號`)
)

// bigCities are the prefixes OCR most often doubles up ("桃園市桃園市...").
var bigCities = []string{"台北市", "新北市", "桃園市", "台中市", "台南市", "高雄市"}

// Cleaner produces the canonical form of a resolved address. A nil
// directory degrades to pure text cleanup.
type Cleaner struct {
	dir *Directory
}

func NewCleaner(dir *Directory) *Cleaner {
	return &Cleaner{dir: dir}
}

// Clean strips OCR residue (leading separators, stray zip codes, 台灣
// prefixes, doubled city names, split house numbers) and completes a
// missing city prefix from the directory's road match. Unresolved
// sentinels pass through unchanged.
func (c *Cleaner) Clean(addr string) string {
	s := compact(addr)
	if s == "" || strings.Contains(s, "辨識中") {
		return s
	}

	s = leadingSepRe.ReplaceAllString(s, "")
	s = leadingZipRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "台灣", "")
	s = houseNoPairRe.ReplaceAllString(s, "${1}號")
	for _, city := range bigCities {
		s = strings.ReplaceAll(s, city+city, city)
	}

	if c.dir != nil {
		if e, ok := c.dir.MatchRoad(s); ok && e.City != "" && !strings.Contains(s, e.City) {
			return e.City + s
		}
	}
	return s
}

// compact removes all whitespace and colon noise and folds 臺 to 台.
func compact(addr string) string {
	s := compactSpaceRe.ReplaceAllString(addr, "")
	s = strings.ReplaceAll(s, "　", "")
	s = strings.ReplaceAll(s, "臺", "台")
	s = strings.ReplaceAll(s, "：", "")
	s = strings.ReplaceAll(s, ":", "")
	return s
}
