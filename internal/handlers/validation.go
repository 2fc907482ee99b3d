package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/utils/accounting"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const tagDetailsSum = "detailssum"

var registerValidatorsOnce sync.Once

// registerValidators installs the custom binding rules on gin's validator.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("handlers: gin binding engine is not a go-playground validator")
		}

		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return domain.IsValidSlug(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("handlers: register slug validator: %v", err))
		}
		if err := v.RegisterValidation("splitmode", func(fl validator.FieldLevel) bool {
			return domain.SplitMode(fl.Field().String()).IsValid()
		}); err != nil {
			panic(fmt.Sprintf("handlers: register splitmode validator: %v", err))
		}
		v.RegisterStructValidation(expenseRequestRule, dto.ExpenseRequest{})
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// expenseRequestRule rejects explicit detail amounts that do not add up to the total.
// Requests that omit every amount are allocated by the service instead.
func expenseRequestRule(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(dto.ExpenseRequest)
	if !ok || req.AmountsOmitted() {
		return
	}
	if _, mismatch := accounting.CheckDetailsSum(req.RoundedTotal(), req.DetailAmounts()); mismatch {
		sl.ReportError(req, "details", "Details", tagDetailsSum, "")
	}
}

// bindingViolations converts validator field errors into API violations.
func bindingViolations(errs validator.ValidationErrors) []apperrors.Violation {
	violations := make([]apperrors.Violation, 0, len(errs))
	for _, fe := range errs {
		if fe.Tag() == tagDetailsSum {
			if req, ok := fe.Value().(dto.ExpenseRequest); ok {
				if v, mismatch := accounting.CheckDetailsSum(req.RoundedTotal(), req.DetailAmounts()); mismatch {
					violations = append(violations, v)
					continue
				}
			}
		}
		violations = append(violations, apperrors.Violation{
			Code:    "invalid_" + fe.Tag(),
			Field:   fieldPath(fe),
			Message: fmt.Sprintf("%s failed the '%s' rule", fieldPath(fe), fe.Tag()),
		})
	}
	return violations
}

// fieldPath strips the root struct name from the namespace, e.g. "details[0].userID".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return ns
}
