package bulkupload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gosimple/slug"
	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type CreatedProduct struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

type Result struct {
	Success  int              `json:"success"`
	Failed   int              `json:"failed"`
	Errors   []RowError       `json:"errors"`
	Products []CreatedProduct `json:"products"`
}

type Service struct {
	catalog *catalog.Service
	now     func() time.Time
}

func NewService(c *catalog.Service) *Service {
	return &Service{catalog: c, now: time.Now}
}

// Import creates one product per valid row. Rows fail independently; the
// result lists every failure with its CSV line number.
func (s *Service) Import(ctx context.Context, content []byte, categoryID uint64, gradeCode string) (*Result, error) {
	if _, err := s.catalog.Category(ctx, categoryID); err != nil {
		return nil, err
	}
	grade, err := s.catalog.GradeByCode(ctx, gradeCode)
	if err != nil {
		return nil, err
	}
	rows, err := ParseCSV(content)
	if err != nil {
		return nil, err
	}

	res := &Result{Errors: []RowError{}, Products: []CreatedProduct{}}
	for _, row := range rows {
		p, err := s.importRow(ctx, row, categoryID, grade.ID)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, RowError{Row: row.Number, Error: fmt.Sprintf("Row %d: %s", row.Number, err)})
			continue
		}
		res.Success++
		res.Products = append(res.Products, CreatedProduct{ID: p.ID, Name: p.Name, SKU: p.SKU})
	}
	log.Printf("[BulkUpload] category=%d grade=%s success=%d failed=%d", categoryID, grade.Code, res.Success, res.Failed)
	return res, nil
}

func (s *Service) importRow(ctx context.Context, row Row, categoryID, gradeID uint64) (*catalog.Product, error) {
	parsed, err := ValidateRow(row)
	if err != nil {
		return nil, err
	}
	images, err := json.Marshal(parsed.Images)
	if err != nil {
		return nil, err
	}
	if parsed.Images == nil {
		images = []byte("[]")
	}
	p := &catalog.Product{
		CategoryID:       categoryID,
		ConditionGradeID: &gradeID,
		Name:             row.Name,
		Slug:             fmt.Sprintf("%s-%d", slug.Make(row.Name), s.now().UnixNano()),
		SKU:              row.SKU,
		Description:      row.Description,
		Specifications:   row.Specifications,
		BasePrice:        parsed.PriceCents,
		Stock:            parsed.Stock,
		Images:           string(images),
		Active:           true,
	}
	if err := s.catalog.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("%s", common.Message(err))
	}
	return p, nil
}
