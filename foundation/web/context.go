package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Context is passed to every Handler. Ctx is the request context and is the
// one middleware should extend with values.
type Context struct {
	*gin.Context
	Ctx context.Context

	log       *logrus.Logger
	paramErrs []FieldError
	queryErrs []FieldError
}

func (c *Context) Respond(data interface{}, status int) error {
	if status == http.StatusNoContent {
		c.Status(status)
		return nil
	}

	c.JSON(status, data)
	return nil
}

// RespondError sends an error response. Errors that do not carry a status
// are logged and reported as 500 without leaking their message.
func (c *Context) RespondError(err error) error {
	var webErr *Error
	if !errors.As(err, &webErr) {
		webErr = &Error{Err: err, Status: http.StatusInternalServerError}
	}

	if webErr.Status >= http.StatusInternalServerError {
		if c.log != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).Error("request failed")
		}
		c.AbortWithStatusJSON(webErr.Status, ErrorResponse{Error: http.StatusText(webErr.Status)})
		return nil
	}

	c.AbortWithStatusJSON(webErr.Status, ErrorResponse{
		Error:  webErr.Error(),
		Fields: webErr.Fields,
	})
	return nil
}

// BindFunc decodes the request into dst and checks that every listed field
// (struct field names, optionally comma separated) is set.
func (c *Context) BindFunc(dst interface{}, required ...string) error {
	if err := c.ShouldBind(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, FieldError{
					Field: fe.Field(),
					Error: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
				})
			}
			return &Error{Err: errors.New("field validation error"), Status: http.StatusUnprocessableEntity, Fields: fields}
		}
		return NewRequestError(errors.Wrap(err, "decoding request"), http.StatusBadRequest)
	}

	return ValidateRequired(dst, required...)
}

// ValidateRequired checks that the named struct fields of s hold a non zero
// value.
func ValidateRequired(s interface{}, required ...string) error {
	v := reflect.Indirect(reflect.ValueOf(s))
	if v.Kind() != reflect.Struct {
		return NewRequestError(errors.New("request must be an object"), http.StatusBadRequest)
	}

	var fields []FieldError
	for _, group := range required {
		for _, name := range strings.Split(group, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			sf, ok := v.Type().FieldByName(name)
			if !ok {
				continue
			}
			f := v.FieldByIndex(sf.Index)
			if f.IsZero() || (f.Kind() == reflect.String && strings.TrimSpace(f.String()) == "") {
				fields = append(fields, FieldError{Field: jsonName(sf), Error: "required"})
			}
		}
	}

	if len(fields) > 0 {
		return &Error{Err: errors.New("field validation error"), Status: http.StatusUnprocessableEntity, Fields: fields}
	}

	return nil
}

// GetParam reads a path parameter as the given kind. Parse failures are
// collected and reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	raw := strings.TrimSpace(c.Param(name))

	switch kind {
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.paramErrs = append(c.paramErrs, FieldError{Field: name, Error: "must be an integer"})
		}
		return n
	default:
		if raw == "" {
			c.paramErrs = append(c.paramErrs, FieldError{Field: name, Error: "required"})
		}
		return raw
	}
}

// GetQueryFunc reads an optional query parameter. It returns a pointer of the
// requested kind, or nil when the parameter is absent or invalid.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	raw, ok := c.GetQuery(name)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil
	}

	switch kind {
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: "must be an integer"})
			return nil
		}
		return &n
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: "must be a boolean"})
			return nil
		}
		return &b
	default:
		return &raw
	}
}

func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}
	return &Error{Err: errors.New("invalid path parameter"), Status: http.StatusBadRequest, Fields: c.paramErrs}
}

func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}
	return &Error{Err: errors.New("invalid query parameter"), Status: http.StatusBadRequest, Fields: c.queryErrs}
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if name := strings.Split(tag, ",")[0]; name != "" && name != "-" {
		return name
	}
	return sf.Name
}
