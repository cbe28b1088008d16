package apimodels

import "request-approval-backend/lib/utils/apperr"

type Response struct {
	Status  string             `json:"status"`            //fail/success
	Message string             `json:"message,omitempty"` //error message
	Errors  apperr.FieldErrors `json:"errors,omitempty"`  //field-scoped validation errors
	Data    interface{}        `json:"data,omitempty"`
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewFieldError(message string, fields apperr.FieldErrors) Response {
	return Response{
		Status:  "fail",
		Message: message,
		Errors:  fields,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}
