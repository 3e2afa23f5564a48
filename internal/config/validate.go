package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate runs the struct-tag checks; validator instances are safe for
// concurrent use, so one package-level instance serves every request.
var validate = validator.New()

// ValidateRequest checks a normalized request for structural problems: tag
// violations, duplicate item ids, and hierarchy members naming unknown items.
// It reports the first problem found.
func ValidateRequest(r *OptimizerRequest) error {
	if r == nil {
		return fmt.Errorf("request cannot be nil")
	}

	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid request: field %s failed %q validation", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid request: %w", err)
	}

	seen := make(map[string]struct{}, len(r.Items))
	for _, item := range r.Items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate item id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	for _, hc := range r.HierarchyConstraints {
		var unknown []string
		for _, member := range hc.Members {
			if _, ok := seen[member]; !ok {
				unknown = append(unknown, member)
			}
		}
		if len(unknown) > 0 {
			return fmt.Errorf("hierarchy constraint %q references unknown item ids: %s", hc.ID, strings.Join(unknown, ", "))
		}
	}

	return nil
}
