// internal/curve/errors.go
package curve

import "errors"

// Нарушения предусловий. Числовые вырожденные случаи ошибками не являются.
var (
	ErrZeroTarget           = errors.New("target supply T must be non-zero")
	ErrNonFinite            = errors.New("parameter is NaN or infinite")
	ErrInvalidPerformance   = errors.New("max performance P must be non-negative")
	ErrTooManySamples       = errors.New("max performance P exceeds sampling limit")
	ErrMeanOutOfRange       = errors.New("average performance must be within [0, P]")
	ErrInvalidTreasuryShare = errors.New("treasury share must be within [0, 100)")
	ErrUnknownSeries        = errors.New("unknown break-even series")
)
