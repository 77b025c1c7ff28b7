// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/tenant-bootstrap/internal/credentials"
)

var tenantCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json names, which is what API and CLI users see
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("tenantcode", func(fl validator.FieldLevel) bool {
		return tenantCodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("bcrypthash", func(fl validator.FieldLevel) bool {
		return credentials.ValidateHash(fl.Field().String()) == nil
	})

	return v
}

// describeValidationError flattens validator output into ErrInvalidRequest.
func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, ", "))
}
