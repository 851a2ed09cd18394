package series

import "github.com/pkg/errors"

var (
	errSeriesLocked = errors.New("series: locked or fixed-size, cannot grow")
	errNotManual    = errors.New("series: free called on a GC-managed series")
)
