package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

type CheckSymptomsRequest struct {
	Symptoms string `json:"symptoms"`
}

type CheckSymptomsResponse struct {
	Response string `json:"response"`
}

type AddPrescriptionRequest struct {
	UserID    UserID `json:"user_id"`
	Symptoms  string `json:"symptoms"`
	Diagnosis string `json:"diagnosis"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UserID keeps whatever JSON value the client sent as text. Strings are
// stored unquoted, other values in their compact JSON form, and null as "".
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*id = UserID(buf.String())
	return nil
}

// decodeRequest reads r's JSON body into dst. Only a body that cannot be
// decoded into dst is rejected; field values themselves are passed on as sent.
func decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return invalidRequest(decodeFieldError(err))
	}
	return nil
}

func decodeFieldError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return FieldError{Field: "body", Message: "Request body is empty"}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return FieldError{Field: typeErr.Field, Message: fmt.Sprintf("Field '%s' has invalid type %s", typeErr.Field, typeErr.Value)}
	case errors.As(err, &syntaxErr):
		return FieldError{Field: "body", Message: fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset)}
	default:
		return FieldError{Field: "body", Message: "Malformed JSON or invalid request body"}
	}
}
