package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// New returns a configured validator with the custom tags and struct-level rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// order_status accepts any known order status, case-insensitively.
	_ = v.RegisterValidation("order_status", func(fl validatorv10.FieldLevel) bool {
		return records.ParseStatus(fl.Field().String()) != records.StatusUnknown
	})

	// completed and cancelled orders are final.
	v.RegisterStructValidation(statusUpdateStructValidation, StatusUpdateRequest{})

	return v
}

func statusUpdateStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(StatusUpdateRequest)

	if records.ParseStatus(req.From).Terminal() {
		sl.ReportError(req.From, "from", "From", "not_terminal", req.From)
	}
}
