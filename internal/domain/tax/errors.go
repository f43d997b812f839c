package tax

import "errors"

var (
	ErrNoBrackets           = errors.New("no tax brackets configured")
	ErrDuplicateOrder       = errors.New("tax bracket orders must be unique")
	ErrInvalidRate          = errors.New("tax rate must be between 0 and 100")
	ErrInvalidBounds        = errors.New("tax bracket minimum must be below its maximum")
	ErrBracketGap           = errors.New("tax brackets must partition income without gaps")
	ErrUnboundedNotLast     = errors.New("only the top tax bracket may be unbounded")
	ErrInvalidAdditionalTax = errors.New("additional tax must equal the accumulated tax of lower brackets")
)
