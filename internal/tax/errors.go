package tax

import "errors"

// ErrMultipleBusinesses is returned when a person's ledger contains more
// than one distinct self-employment business in a tax year. Only a
// single business is supported; aggregating across businesses would
// silently compute the wrong return.
var ErrMultipleBusinesses = errors.New("more than one self-employment business")
