// Package export produces XLSX workbooks of stored orders for the
// operations team.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/freightdock/intake/internal/entity"
	"github.com/freightdock/intake/internal/repository"
)

// Service is a tiny façade over the order repository that produces XLSX
// bytes for exports.
type Service struct {
	orders repository.OrderRepository
	logger *slog.Logger
}

func NewService(orders repository.OrderRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{orders: orders, logger: logger}
}

// ExportOrdersXLSX returns an XLSX workbook (as bytes) with one row per
// stored order, newest first, up to limit.
func (s *Service) ExportOrdersXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	orders, err := s.orders.ListOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return s.buildWorkbook(orders, start)
}

func (s *Service) buildWorkbook(orders []entity.StoredOrder, start time.Time) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Orders"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Created",
		"Vendor",
		"Order Reference",
		"Loading",
		"Loading Date",
		"Destination",
		"Delivery Date",
		"Cargo",
		"Weight (kg)",
		"Price",
		"Currency",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, stored := range orders {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		order := stored.Order
		write(1, stored.CreatedAt.Format("2006-01-02 15:04"))
		write(2, stored.Vendor)
		write(3, order.OrderReference)

		if len(order.LoadingLocations) > 0 {
			loc := order.LoadingLocations[0]
			write(4, formatStop(loc))
			write(5, loc.Time.DatetimeFrom.Format("2006-01-02"))
		}
		if len(order.DestinationLocations) > 0 {
			loc := order.DestinationLocations[0]
			write(6, formatStop(loc))
			write(7, loc.Time.DatetimeFrom.Format("2006-01-02"))
		}
		if len(order.Cargos) > 0 {
			cargo := order.Cargos[0]
			write(8, fmt.Sprintf("%d %s (%s)", cargo.PackageCount, cargo.PackageType, cargo.Type))
			write(9, cargo.Weight)
		}
		write(10, order.FreightPrice)
		write(11, order.FreightCurrency)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 17)
	_ = f.SetColWidth(sheet, "B", "C", 16)
	_ = f.SetColWidth(sheet, "D", "D", 40)
	_ = f.SetColWidth(sheet, "F", "F", 40)
	_ = f.SetColWidth(sheet, "H", "H", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// formatStop renders a location as "CITY, CC (COMPANY)".
func formatStop(loc entity.Location) string {
	var b strings.Builder
	b.WriteString(loc.CompanyAddress.City)
	if loc.CompanyAddress.Country != "" {
		b.WriteString(", " + loc.CompanyAddress.Country)
	}
	if loc.CompanyAddress.Company != "" {
		b.WriteString(" (" + loc.CompanyAddress.Company + ")")
	}
	return b.String()
}
