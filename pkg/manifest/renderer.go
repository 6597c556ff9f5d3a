package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/nurulloasawear/order-app/pkg/enums"
	"github.com/nurulloasawear/order-app/pkg/logger"
)

// Item is one table row in a rendered manifest.
type Item struct {
	ProductName string
	SKU         string
	OrderID     string
	Barcode     string
	Quantity    int
	Status      string
}

// RenderContext carries the values stamped into the document header and
// the artifact name.
type RenderContext struct {
	Date  string
	Actor string
}

// Renderer produces a stored artifact from a batch of items and returns its id.
type Renderer interface {
	Render(ctx context.Context, kind enums.ManifestKind, items []Item, rc RenderContext) (string, error)
}

var titlesByKind = map[enums.ManifestKind]string{
	enums.ManifestKindPicking:   "CONFIRMED ORDERS",
	enums.ManifestKindRejection: "REJECTED ORDERS",
	enums.ManifestKindReturns:   "RETURNED ORDERS - SUPPLIER",
	enums.ManifestKindDelivery:  "RETURN DELIVERY NOTE",
	enums.ManifestKindReceipt:   "RETURN RECEIPT",
}

const rejectionNotice = "The lines above were refused during fulfillment review. " +
	"Stock for these lines stays with the supplier until a new decision is recorded."

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// PDFRenderer writes manifest PDFs into a flat artifacts directory.
type PDFRenderer struct {
	dir    string
	logger *logger.Logger
}

// NewPDFRenderer ensures the artifacts directory exists.
func NewPDFRenderer(dir string, logg *logger.Logger) (*PDFRenderer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("artifacts directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts directory: %w", err)
	}
	return &PDFRenderer{dir: dir, logger: logg}, nil
}

// Render lays the items out as the standard manifest table and writes the
// file as <kind>_<date>_<actor>.pdf. The returned id is the bare file name.
func (r *PDFRenderer) Render(ctx context.Context, kind enums.ManifestKind, items []Item, rc RenderContext) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown manifest kind %q", kind)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, titlesByKind[kind], "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Date: %s", rc.Date), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("User: %s", rc.Actor), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	headers := []string{"#", "Product", "SKU", "Order", "Barcode", "Qty", "Status"}
	widths := []float64{10, 60, 28, 26, 32, 14, 20}

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 9, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for idx, item := range items {
		row := []string{
			strconv.Itoa(idx + 1),
			truncate(item.ProductName, 45),
			item.SKU,
			item.OrderID,
			item.Barcode,
			strconv.Itoa(item.Quantity),
			item.Status,
		}
		for i, value := range row {
			align := "C"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 9, value, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if kind == enums.ManifestKindRejection {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, rejectionNotice, "", "L", false)
	}

	name := ArtifactName(kind, rc)
	path := filepath.Join(r.dir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing manifest %s: %w", name, err)
	}

	if r.logger != nil {
		r.logger.Info(r.logger.WithFields(ctx, map[string]any{
			"artifact": name,
			"kind":     kind.String(),
			"rows":     len(items),
		}), "manifest rendered")
	}
	return name, nil
}

// ArtifactName builds the canonical file name for a manifest.
func ArtifactName(kind enums.ManifestKind, rc RenderContext) string {
	date := sanitizeNamePart(rc.Date)
	actor := sanitizeNamePart(rc.Actor)
	return fmt.Sprintf("%s_%s_%s.pdf", kind, date, actor)
}

func sanitizeNamePart(part string) string {
	cleaned := unsafeNameChars.ReplaceAllString(strings.TrimSpace(part), "-")
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
