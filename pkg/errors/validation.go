package errors

// ValidationError carries which input failed and why: a field name, the
// rule that was violated, and (where relevant) the provided and expected
// values. Used for both configuration validation at startup and wire
// request validation in the request handler.
type ValidationError struct {
	*baseError
	field    string
	rule     string
	provided any
	expected any
}

// NewValidationError builds a ValidationError from a cause, code and message.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

func (ve *ValidationError) WithMessage(msg string) *ValidationError {
	ve.baseError.WithMessage(msg)
	return ve
}

func (ve *ValidationError) WithCode(code ErrorCode) *ValidationError {
	ve.baseError.WithCode(code)
	return ve
}

func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

func (ve *ValidationError) WithExpected(value any) *ValidationError {
	ve.expected = value
	return ve
}

func (ve *ValidationError) Field() string {
	return ve.field
}

func (ve *ValidationError) Rule() string {
	return ve.rule
}

func (ve *ValidationError) Provided() any {
	return ve.provided
}

func (ve *ValidationError) Expected() any {
	return ve.expected
}

// NewRequiredFieldError builds the error for a missing required field,
// e.g. a wire request with no key token.
func NewRequiredFieldError(fieldName string) *ValidationError {
	return NewValidationError(nil, ErrorCodeInvalidInput, "required field is missing").
		WithField(fieldName).WithRule("required")
}

// NewFieldFormatError builds the error for a field whose value doesn't
// match what's expected, e.g. a wire request naming an unrecognized verb.
func NewFieldFormatError(fieldName string, provided any, expected string) *ValidationError {
	return NewValidationError(nil, ErrorCodeInvalidInput, "field value does not match the expected format").
		WithField(fieldName).WithRule("format").WithProvided(provided).WithExpected(expected)
}

// NewFieldRangeError builds the error for a field outside its acceptable range.
func NewFieldRangeError(fieldName string, provided any, min, max any) *ValidationError {
	return NewValidationError(nil, ErrorCodeInvalidInput, "field value is outside the acceptable range").
		WithField(fieldName).WithRule("range").WithProvided(provided).
		WithDetail("minValue", min).WithDetail("maxValue", max)
}

// NewConfigurationValidationError builds the error for a resolved
// configuration value this build doesn't recognize (e.g. an engine name
// other than "kvs"/"sled").
func NewConfigurationValidationError(field string, issue string) *ValidationError {
	return NewValidationError(nil, ErrorCodeInvalidInput, "configuration validation failed").
		WithField(field).WithRule("configuration_integrity").WithDetail("issue", issue)
}
