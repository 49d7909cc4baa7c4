package bulkupload

import (
	"context"
	"fmt"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"gorm.io/gorm"
)

func TestParseCSV(t *testing.T) {
	content := "Name,SKU,basePrice,stock,images\n" +
		"\"Speaker, portable\",WBS-001,25.50,100,\"https://a/1.jpg, https://a/2.jpg\"\n" +
		"\n" +
		"Cable,CB-1,1,5,\n"
	rows, err := ParseCSV([]byte(content))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Speaker, portable", rows[0].Name)
	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, "25.50", rows[0].BasePrice)

	_, err = ParseCSV([]byte("name,price\nx,1\n"))
	require.Error(t, err)
	assert.Contains(t, common.Message(err), "sku")

	_, err = ParseCSV([]byte("name,sku\n"))
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestValidateRow(t *testing.T) {
	p, err := ValidateRow(Row{Name: "x", SKU: "y", BasePrice: "25.505", Stock: "3", Images: "a, ,b"})
	require.NoError(t, err)
	assert.Equal(t, int64(2551), p.PriceCents)
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, []string{"a", "b"}, p.Images)

	bad := map[string]Row{
		"name is required":   {SKU: "y"},
		"SKU is required":    {Name: "x"},
		"255 characters":     {Name: strings.Repeat("n", 256), SKU: "y"},
		"100 characters":     {Name: "x", SKU: strings.Repeat("s", 101)},
		"must be A, B, or C": {Name: "x", SKU: "y", Condition: "D"},
		"cannot be negative": {Name: "x", SKU: "y", BasePrice: "-1"},
		"is not an integer":  {Name: "x", SKU: "y", Stock: "1.5"},
		"is not a number":    {Name: "x", SKU: "y", BasePrice: "abc"},
	}
	for want, row := range bad {
		_, err := ValidateRow(row)
		require.Error(t, err, want)
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateFileAndTemplate(t *testing.T) {
	assert.NoError(t, ValidateFile("products.CSV", 10))
	assert.Error(t, ValidateFile("products.xlsx", 10))
	assert.Error(t, ValidateFile("products.csv", 0))
	assert.Error(t, ValidateFile("products.csv", MaxFileSize+1))

	rows, err := ParseCSV([]byte(Template()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	_, err = ValidateRow(rows[0])
	assert.NoError(t, err)
}

func TestImport(t *testing.T) {
	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Category{}, &catalog.ConditionGrade{}, &catalog.Product{}))
	cat := &catalog.Category{Name: "Electronics", Slug: "electronics"}
	require.NoError(t, db.Create(cat).Error)
	require.NoError(t, db.Create(&catalog.ConditionGrade{Code: "A", Name: "Like new"}).Error)

	svc := NewService(catalog.NewService(catalog.NewRepo(db), nil, 0))
	ctx := context.Background()

	content := "name,sku,basePrice,stock,condition\n" +
		"Speaker,WBS-001,25.50,100,A\n" +
		",NO-NAME,1,1,\n" +
		"Speaker,WBS-001,25.50,100,A\n" +
		"Cable,CB-1,0.99,5,Z\n" +
		"Cable,CB-2,0.99,5,\n"
	res, err := svc.Import(ctx, []byte(content), cat.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 3, res.Failed)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, 4, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Error, "already exists")
	assert.Equal(t, 5, res.Errors[2].Row)

	var p catalog.Product
	require.NoError(t, db.Where("sku = ?", "WBS-001").First(&p).Error)
	assert.Equal(t, int64(2550), p.BasePrice)
	assert.True(t, strings.HasPrefix(p.Slug, "speaker-"))
	assert.Equal(t, "[]", p.Images)

	_, err = svc.Import(ctx, []byte(content), cat.ID, "Q")
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}
