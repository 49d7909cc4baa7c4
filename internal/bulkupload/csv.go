package bulkupload

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

const MaxFileSize = 10 << 20

var templateHeader = []string{
	"name", "sku", "category", "description", "specifications",
	"condition", "stock", "basePrice", "images", "certifications",
}

// Row is one parsed CSV data row. Number is the 1-based line in the file
// counting the header, i.e. the first data row is 2.
type Row struct {
	Number         int
	Name           string
	SKU            string
	Category       string
	Description    string
	Specifications string
	Condition      string
	Stock          string
	BasePrice      string
	Images         string
	Certifications string
}

// ParseCSV reads the header and every non-blank data row.
func ParseCSV(content []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, common.Validation("CSV file must contain a header row and at least one data row")
	}
	if err != nil {
		return nil, common.Validation("invalid CSV: %v", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, req := range []string{"name", "sku"} {
		if _, ok := cols[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, common.Validation("missing required columns: %s", strings.Join(missing, ", "))
	}

	get := func(rec []string, names ...string) string {
		for _, n := range names {
			if i, ok := cols[n]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
		}
		return ""
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, common.Validation("invalid CSV: %v", err)
		}
		if blank(rec) {
			continue
		}
		rows = append(rows, Row{
			Number:         len(rows) + 2,
			Name:           get(rec, "name"),
			SKU:            get(rec, "sku"),
			Category:       get(rec, "category"),
			Description:    get(rec, "description"),
			Specifications: get(rec, "specifications"),
			Condition:      get(rec, "condition"),
			Stock:          get(rec, "stock"),
			BasePrice:      get(rec, "baseprice", "price"),
			Images:         get(rec, "images"),
			Certifications: get(rec, "certifications"),
		})
	}
	if len(rows) == 0 {
		return nil, common.Validation("CSV file must contain a header row and at least one data row")
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Parsed holds the typed values of a valid row.
type Parsed struct {
	PriceCents int64
	Stock      int
	Images     []string
}

// ValidateRow checks a row and converts its numeric fields.
func ValidateRow(row Row) (*Parsed, error) {
	switch {
	case row.Name == "":
		return nil, fmt.Errorf("product name is required")
	case row.SKU == "":
		return nil, fmt.Errorf("product SKU is required")
	case utf8.RuneCountInString(row.Name) > 255:
		return nil, fmt.Errorf("product name must not exceed 255 characters")
	case utf8.RuneCountInString(row.SKU) > 100:
		return nil, fmt.Errorf("product SKU must not exceed 100 characters")
	}
	if row.Condition != "" {
		switch strings.ToUpper(row.Condition) {
		case "A", "B", "C":
		default:
			return nil, fmt.Errorf("product condition must be A, B, or C")
		}
	}

	out := &Parsed{}
	if row.BasePrice != "" {
		d, err := decimal.NewFromString(row.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("product price %q is not a number", row.BasePrice)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("product price cannot be negative")
		}
		out.PriceCents = d.Shift(2).Round(0).IntPart()
	}
	if row.Stock != "" {
		n, err := strconv.Atoi(row.Stock)
		if err != nil {
			return nil, fmt.Errorf("product stock %q is not an integer", row.Stock)
		}
		if n < 0 {
			return nil, fmt.Errorf("product stock cannot be negative")
		}
		out.Stock = n
	}
	for _, u := range strings.Split(row.Images, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out.Images = append(out.Images, u)
		}
	}
	return out, nil
}

// Template returns the CSV header plus one example row.
func Template() string {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write(templateHeader)
	_ = w.Write([]string{
		"Wireless Bluetooth Speaker",
		"WBS-001",
		"Electronics",
		"High-quality portable speaker",
		"Power: 10W, Battery: 8 hours",
		"A",
		"100",
		"25.50",
		"https://example.com/image1.jpg,https://example.com/image2.jpg",
		"CE,FCC",
	})
	w.Flush()
	return b.String()
}

// ValidateFile checks the upload's name and size before it is read.
func ValidateFile(name string, size int64) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return common.Validation("invalid file format, please upload a .csv file")
	}
	if size <= 0 {
		return common.Validation("file is empty")
	}
	if size > MaxFileSize {
		return common.Validation("file size exceeds maximum limit of 10MB")
	}
	return nil
}
