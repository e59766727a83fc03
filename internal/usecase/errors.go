package usecase

import "errors"

// ErrNoData is returned when neither side yields a single valid record,
// so there is nothing meaningful to reconcile.
var ErrNoData = errors.New("both inputs contain no valid records")
