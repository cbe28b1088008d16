package models

type RequestStatus string

const (
	RequestStatusPendingApproval RequestStatus = "PENDING_APPROVAL"
	RequestStatusApproved        RequestStatus = "APPROVED"
	RequestStatusRejected        RequestStatus = "REJECTED"
	RequestStatusClosed          RequestStatus = "CLOSED"
)

// REJECTED and CLOSED have no outgoing transitions.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPendingApproval: {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved:        {RequestStatusClosed},
}

var requestStatusHumanName = map[RequestStatus]string{
	RequestStatusPendingApproval: "Pending approval",
	RequestStatusApproved:        "Approved",
	RequestStatusRejected:        "Rejected",
	RequestStatusClosed:          "Closed",
}

func (s RequestStatus) ToHuman() string {
	if human, exist := requestStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s RequestStatus) IsAllowChange(to RequestStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}
