package render

import (
	"bytes"
	"fmt"

	"hestia/internal/expenses"
	"hestia/internal/models"
	"hestia/internal/statements"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Document is everything printed on a statement besides the statement itself
type Document struct {
	Statement *statements.Statement
	Property  models.Property
	Company   models.Company
	Reference string
	// BalanceForward is what was still owed on earlier statements
	BalanceForward decimal.Decimal
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// StatementPDF renders a one page monthly statement.
func StatementPDF(doc Document) ([]byte, error) {
	st := doc.Statement
	if st == nil {
		return nil, fmt.Errorf("no statement to render")
	}
	leaseholder := st.Leaseholder()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Monthly Statement", false)
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, doc.Company.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	if doc.Company.RemitTo.Street != "" {
		pdf.Cell(0, 5, doc.Company.RemitTo.String())
		pdf.Ln(5)
	}
	if doc.Company.Phone != "" || doc.Company.Email != "" {
		pdf.Cell(0, 5, fmt.Sprintf("%s  %s", doc.Company.Phone, doc.Company.Email))
		pdf.Ln(5)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(100, 6, leaseholder.DisplayName())
	pdf.Cell(0, 6, fmt.Sprintf("Statement Date: %s", st.Date().Format(expenses.DateLayout)))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 5, doc.Property.Name)
	pdf.Cell(0, 5, fmt.Sprintf("Period: %s to %s",
		statements.PeriodStart(st.Date()).Format(expenses.DateLayout),
		st.Date().Format(expenses.DateLayout)))
	pdf.Ln(5)
	pdf.Cell(100, 5, doc.Property.Address.String())
	if doc.Reference != "" {
		pdf.Cell(0, 5, fmt.Sprintf("Reference: %s", doc.Reference))
	}
	pdf.Ln(12)

	// Charges
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(110, 7, "Charge", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "Amount", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, line := range st.Lines() {
		pdf.CellFormat(110, 7, line.Caption(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, line.Display(), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.CellFormat(110, 6, "Balance Forward:", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, money(doc.BalanceForward), "", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(110, 6, "Amount Due:", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, money(doc.BalanceForward.Add(st.Total())), "", 0, "R", false, 0, "")
	pdf.Ln(14)

	// Footer
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, "Thank You")
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Please Remit To: %s, %s", doc.Company.Name, doc.Company.RemitTo.String()))
	pdf.Ln(5)
	if doc.Company.PaymentTerms != "" {
		pdf.Cell(0, 5, doc.Company.PaymentTerms)
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExpensesXLSX renders a property's expense list with a per-bucket summary sheet.
func ExpensesXLSX(property models.Property, list []expenses.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	expensesSheet := "expenses"
	summarySheet := "summary"
	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(expensesSheet, "A1", "Date")
	_ = f.SetCellValue(expensesSheet, "B1", "Type")
	_ = f.SetCellValue(expensesSheet, "C1", "Amount")
	_ = f.SetCellValue(expensesSheet, "D1", "Description")
	for i, e := range list {
		row := i + 2
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("A%d", row), e.Date.Format(expenses.DateLayout))
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("B%d", row), e.Type.String())
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("C%d", row), e.Amount.InexactFloat64())
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("D%d", row), e.Description)
	}

	totals := expenses.Aggregate(list)
	_ = f.SetCellValue(summarySheet, "A1", property.Name)
	_ = f.SetCellValue(summarySheet, "A3", "Bucket")
	_ = f.SetCellValue(summarySheet, "B3", "Total")
	for i, b := range expenses.Buckets {
		row := i + 4
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), b.String())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), totals.Get(b).InexactFloat64())
	}
	last := len(expenses.Buckets) + 4
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", last), "Total")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", last), totals.Sum().InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
