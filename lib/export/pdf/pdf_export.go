package pdfexport

import (
	"bytes"
	"fmt"
	requestapimodels "request-approval-backend/models/api/request"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontFamily = "Go"
	dateLayout = "2006-01-02 15:04 MST"
	labelWidth = 45
	lineHeight = 8
)

type slipLine struct {
	label string
	value string
}

// GenerateRequestSlip renders a one page summary of a request and its lifecycle.
func GenerateRequestSlip(view requestapimodels.RequestView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateRequestSlip panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.SetTitle(fmt.Sprintf("Request #%d", view.ID), true)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 12, fmt.Sprintf("Request #%d: %s", view.ID, view.Title), "B", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", 11)
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	valueWidth := pageWidth - left - right - labelWidth
	for _, line := range slipLines(view) {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(labelWidth, lineHeight, line.label, "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		pdf.MultiCell(valueWidth, lineHeight, line.value, "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(0, lineHeight, "Description", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(0, lineHeight-2, view.Description, "", "L", false)

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func slipLines(view requestapimodels.RequestView) []slipLine {
	lines := []slipLine{
		{"Status", view.Status.ToHuman()},
		{"Created by", userLine(view.CreatedBy)},
		{"Assigned to", userLine(view.AssignedTo)},
		{"Created at", formatTime(&view.CreatedAt)},
	}
	if view.ApprovedAt != nil {
		lines = append(lines, slipLine{"Approved at", formatTime(view.ApprovedAt)})
	}
	if view.RejectedAt != nil {
		lines = append(lines, slipLine{"Rejected at", formatTime(view.RejectedAt)})
		reason := "-"
		if view.RejectionReason != nil {
			reason = *view.RejectionReason
		}
		lines = append(lines, slipLine{"Rejection reason", reason})
	}
	if view.ClosedAt != nil {
		lines = append(lines, slipLine{"Closed at", formatTime(view.ClosedAt)})
	}
	return lines
}

func userLine(user *requestapimodels.UserBrief) string {
	if user == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", user.Name, user.Email)
}

func formatTime(value *time.Time) string {
	return value.UTC().Format(dateLayout)
}
