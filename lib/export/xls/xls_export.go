package xlsexport

import (
	"bytes"
	requestapimodels "request-approval-backend/models/api/request"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportRequestList(list []requestapimodels.RequestView) (*bytes.Buffer, error)
}

func NewHandler() Provider {
	return impl{}
}

type impl struct{}

const (
	SheetName  = "Requests"
	dateLayout = "2006-01-02 15:04"
)

var requestHeaders = []string{"ID", "Title", "Description", "Status", "Created by", "Assigned to", "Created at", "Approved at", "Rejected at", "Rejection reason", "Closed at"}

func (i impl) ExportRequestList(list []requestapimodels.RequestView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close workbook")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, requestHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		if _, err = writeRequestData(f, sheet, list, row); err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx data")
		}
	}
	// description
	if err = setWideColumn(f, sheet, 3); err != nil {
		return nil, errors.Wrap(err, "failed to size xlsx columns")
	}
	if err = f.SetSheetName(sheet, SheetName); err != nil {
		return nil, errors.Wrap(err, "failed to rename xlsx sheet")
	}
	return f.WriteToBuffer()
}

func writeRequestData(f *excelize.File, sheet string, list []requestapimodels.RequestView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(requestHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.ID,
			item.Title,
			item.Description,
			item.Status.ToHuman(),
			userCell(item.CreatedBy),
			userCell(item.AssignedTo),
			item.CreatedAt.Format(dateLayout),
			timeCell(item.ApprovedAt),
			timeCell(item.RejectedAt),
			stringCell(item.RejectionReason),
			timeCell(item.ClosedAt),
		}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func userCell(user *requestapimodels.UserBrief) string {
	if user == nil {
		return ""
	}
	return user.Name + " <" + user.Email + ">"
}

func timeCell(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(dateLayout)
}

func stringCell(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
