package donations

import (
	"context"
	"fmt"

	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/services"
	"github.com/psf-initiatives/admin-api/services/receipts"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportContentType is the media type of Export output
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const exportSheet = "Donations"

var exportHeader = []interface{}{
	"ID", "Title", "Donor Name", "Donor Email", "Donor Phone", "Amount",
	"Status", "Anonymous", "Message", "Receipt", "Created At",
}

// Export renders donations, optionally for one title, as an XLSX workbook
func (s *Service) Export(ctx context.Context, title string) ([]byte, error) {
	donations, err := s.all(ctx, title)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, services.WrapInternal("Failed to build export", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, services.WrapInternal("Failed to build export", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(exportSheet, 1, 1, style)
	}

	for i, d := range donations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, services.WrapInternal("Failed to build export", err)
		}
		row := exportRow(d)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, services.WrapInternal("Failed to build export", err)
		}
	}
	_ = f.SetColWidth(exportSheet, "A", "A", 38)
	_ = f.SetColWidth(exportSheet, "B", "K", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, services.WrapInternal("Failed to build export", err)
	}

	s.logger.Info("donations exported", zap.Int("rows", len(donations)), zap.String("title", title))
	return buf.Bytes(), nil
}

// ExportFilename names the workbook returned by Export
func ExportFilename(title string) string {
	if title == "" {
		return "donations.xlsx"
	}
	return fmt.Sprintf("donations_%s.xlsx", receipts.Slug(title))
}

func (s *Service) all(ctx context.Context, title string) ([]*models.Donation, error) {
	var out []*models.Donation
	for offset := 0; ; offset += MaxLimit {
		page, err := s.donations.List(ctx, models.DonationFilter{Title: title, Offset: offset, Limit: MaxLimit})
		if err != nil {
			return nil, services.FromRepository(err, nil, nil)
		}
		out = append(out, page...)
		if len(page) < MaxLimit {
			return out, nil
		}
	}
}

func exportRow(d *models.Donation) []interface{} {
	return []interface{}{
		d.ID.String(),
		d.Title,
		d.DonorName,
		d.DonorEmail,
		d.DonorPhone,
		d.Amount,
		string(d.Status),
		d.IsAnonymous,
		deref(d.Message),
		deref(d.PaymentReference),
		d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
