// Package validator is a small rule-based input validator.
//
// Rules are built eagerly and evaluated by Apply, which returns every failure
// at once as Errors:
//
//	err := validator.Apply(
//		validator.Required("customer", in.Customer),
//		validator.Min("totalCents", in.TotalCents, 0),
//	)
//	if errors.Is(err, validator.ErrValidationFailed) {
//		fields := validator.Extract(err)
//		_ = fields
//	}
package validator
