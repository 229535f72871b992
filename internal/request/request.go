// Package request defines the HTTP request DTOs and their validation
// rules, keeping the wire shapes out of the service layer.
package request

import (
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Login carries user credentials.
type Login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateMessage carries the message body; the sender comes from the
// authenticated token, never from the request.
type CreateMessage struct {
	Content string `json:"content" validate:"required"`
}

// UpdateMessageStatus carries the requested status transition.
type UpdateMessageStatus struct {
	Status string `json:"status" validate:"required,oneof=SENT DELIVERED READ"`
}

// QueryMessages carries the query-string parameters of the list endpoint.
// Mode selection (sender vs date range) is the service's concern; this
// layer only checks types and bounds.
type QueryMessages struct {
	Sender    string `validate:"omitempty"`
	StartDate int64  `validate:"omitempty,min=0"`
	EndDate   int64  `validate:"omitempty,min=0,gtefield=StartDate"`
	Limit     int    `validate:"omitempty,min=1,max=100"`
	Cursor    string `validate:"omitempty,base64url"`
}

// Validate runs the struct-tag rules on any request DTO.
func Validate(v any) error {
	return validate.Struct(v)
}

// ParseQueryMessages decodes and validates the list endpoint's query
// string. Timestamps are milliseconds since epoch.
func ParseQueryMessages(q url.Values) (QueryMessages, error) {
	out := QueryMessages{Sender: q.Get("sender"), Cursor: q.Get("cursor")}

	var err error
	if out.StartDate, err = parseInt64(q.Get("startDate")); err != nil {
		return QueryMessages{}, err
	}
	if out.EndDate, err = parseInt64(q.Get("endDate")); err != nil {
		return QueryMessages{}, err
	}
	limit, err := parseInt64(q.Get("limit"))
	if err != nil {
		return QueryMessages{}, err
	}
	out.Limit = int(limit)

	if err := Validate(out); err != nil {
		return QueryMessages{}, err
	}
	return out, nil
}

func parseInt64(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
