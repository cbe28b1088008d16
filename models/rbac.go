package models

type RbacFunc func(userID uint, role UserRole, path string) bool

type Module string

const (
	RequestModule  Module = "REQUEST"
	ApprovalModule Module = "APPROVAL"
	ProfileModule  Module = "PROFILE"
)

type Permission string

const (
	CreatePermission  Permission = "CREATE"
	ViewPermission    Permission = "VIEW"
	ClosePermission   Permission = "CLOSE"
	ApprovePermission Permission = "APPROVE"
	RejectPermission  Permission = "REJECT"
	ExportPermission  Permission = "EXPORT"
)
