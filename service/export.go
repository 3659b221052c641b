package service

import (
	"context"
	"fmt"

	"financas/logger"
	"financas/models"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet      = "Despesas"
	msgExportFailed  = "Internal error while exporting expenses"
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	lastExportColumn = "E"
)

// ExportFile 导出的工作簿
type ExportFile struct {
	Name string
	Book *excelize.File
}

// ExportService 把看板数据导出为 Excel
type ExportService struct {
	dashboard *DashboardAggregator
	log       *logger.Logger
}

func NewExportService(dashboard *DashboardAggregator, log *logger.Logger) *ExportService {
	if log == nil {
		log = logger.Discard()
	}
	return &ExportService{dashboard: dashboard, log: log.WithComponent(logger.ComponentExport)}
}

// Export 生成与看板相同筛选条件的消费明细和月度汇总
func (s *ExportService) Export(ctx context.Context, userUUID string, f DashboardFilters) (*ExportFile, error) {
	month, err := ParseMonth(f.Month, s.dashboard.now())
	if err != nil {
		return nil, err
	}
	f.Month = month.Format(models.MonthLayout)

	d, err := s.dashboard.GetDashboard(ctx, userUUID, f)
	if err != nil {
		return nil, err
	}
	book, err := buildWorkbook(d)
	if err != nil {
		return nil, logInternal(ctx, s.log, Internal(err, msgExportFailed), logger.FieldUser, userUUID)
	}
	s.log.InfoContext(ctx, "expenses exported",
		logger.FieldUser, userUUID,
		logger.FieldMonth, f.Month,
		logger.FieldCount, len(d.Expenses),
	)
	return &ExportFile{Name: fmt.Sprintf("despesas_%s.xlsx", f.Month), Book: book}, nil
}

func border() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

func buildWorkbook(d *Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{Border: border()})
	if err != nil {
		f.Close()
		return nil, err
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: border(),
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	f.SetColWidth(exportSheet, "A", "A", 40)
	f.SetColWidth(exportSheet, "B", "B", 30)
	f.SetColWidth(exportSheet, "C", "C", 14)
	f.SetColWidth(exportSheet, "D", "D", 16)
	f.SetColWidth(exportSheet, "E", "E", 12)

	headers := []string{"UUID", "Título", "Valor", "Categoria", "Data"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(exportSheet, cell, h)
	}
	f.SetCellStyle(exportSheet, "A1", lastExportColumn+"1", headerStyle)

	for i, e := range d.Expenses {
		row := i + 2
		category := ""
		if e.Category != nil {
			category = e.Category.Name
		}
		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), e.UUID)
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), e.Title)
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), e.Value.InexactFloat64())
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), category)
		f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), e.Date.Format(models.DateLayout))
		f.SetCellStyle(exportSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastExportColumn, row), dataStyle)
	}

	// 汇总区，与明细间隔一行
	start := len(d.Expenses) + 3
	summary := []struct {
		label string
		value float64
	}{
		{"Entradas", d.User.Income.InexactFloat64()},
		{"Despesas", d.User.Expenses.InexactFloat64()},
		{"Saldo", d.User.Balance.InexactFloat64()},
	}
	for i, line := range summary {
		row := start + i
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), line.label)
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), line.value)
		f.SetCellStyle(exportSheet, fmt.Sprintf("B%d", row), fmt.Sprintf("C%d", row), summaryStyle)
	}
	return f, nil
}
