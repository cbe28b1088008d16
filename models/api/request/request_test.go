package requestapimodels

import (
	"request-approval-backend/models"
	dbmodels "request-approval-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateRequestValidate(t *testing.T) {
	t.Run(`valid payload`, func(t *testing.T) {
		fields := CreateRequest{Title: "Leave", Description: "two days", ManagerName: "Manager One"}.Validate()
		require.True(t, fields.Empty())
	})

	t.Run(`empty payload`, func(t *testing.T) {
		fields := CreateRequest{}.Validate()
		require.Equal(t, []string{"title is required"}, fields["title"])
		require.Equal(t, []string{"description is required"}, fields["description"])
		require.Equal(t, []string{"manager name must be at least 2 characters"}, fields["managerName"])
	})

	t.Run(`blank title`, func(t *testing.T) {
		fields := CreateRequest{Title: "   ", Description: "x", ManagerName: "Bo"}.Validate()
		require.Len(t, fields, 1)
		require.Contains(t, fields, "title")
	})
}

func TestRejectRequestValidate(t *testing.T) {
	require.True(t, RejectRequest{}.Validate().Empty())
	reason := "budget"
	require.True(t, RejectRequest{Reason: &reason}.Validate().Empty())
	empty := ""
	require.Contains(t, RejectRequest{Reason: &empty}.Validate(), "reason")
}

func TestRequestConvert(t *testing.T) {
	now := time.Now()
	rec := dbmodels.Request{
		Title:        "Leave",
		Description:  "two days",
		Status:       models.RequestStatusApproved,
		CreatedByID:  2,
		AssignedToID: 2,
		AssignedTo:   &dbmodels.User{Name: "Employee A", Email: "a@example.com"},
		ApprovedAt:   &now,
	}
	rec.ID = 7
	view := RequestConvert(rec)
	require.Equal(t, uint(7), view.ID)
	require.Equal(t, models.RequestStatusApproved, view.Status)
	require.Nil(t, view.CreatedBy)
	require.NotNil(t, view.AssignedTo)
	require.Equal(t, "Employee A", view.AssignedTo.Name)
	require.Equal(t, &now, view.ApprovedAt)
}
