package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Document is one corpus entry ready for embedding: review text as content,
// product title as metadata.
type Document struct {
	PageContent string
	Metadata    map[string]string
}

var requiredColumns = []string{"product_title", "review"}

var validate = validator.New()

type reviewRow struct {
	ProductTitle string `validate:"required"`
	Review       string `validate:"required"`
}

// Converter reads the product review CSV and turns rows into documents.
// Any validation failure aborts the whole batch - a partial corpus is worse
// than a hard failure at load time.
type Converter struct {
	filePath string
}

func NewConverter(filePath string) (*Converter, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("data file not found: %s", filePath)
	}
	return &Converter{filePath: filePath}, nil
}

func (c *Converter) ConvertToDocuments() ([]Document, error) {
	file, err := os.Open(c.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	columns, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var docs []Document
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", line+1, err)
		}
		line++

		row := reviewRow{
			ProductTitle: strings.TrimSpace(record[columns["product_title"]]),
			Review:       strings.TrimSpace(record[columns["review"]]),
		}
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("invalid row %d: both product_title and review are required", line)
		}

		docs = append(docs, Document{
			PageContent: row.Review,
			Metadata: map[string]string{
				"product_name": row.ProductTitle,
			},
		})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return docs, nil
}

func locateColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}
