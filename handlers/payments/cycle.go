package payments

// NextExpiry implements the renewal-stacking rule: a payment extends the
// subscription by exactly one billing period from whichever is later, the
// current time or the current expiry. Paying early therefore compounds the
// term forward instead of resetting it, and paying after a lapse starts a
// fresh period from now. All values are unix seconds.
func NextExpiry(now, currentExpiry int64, frequency uint64) int64 {
	base := now
	if currentExpiry > base {
		base = currentExpiry
	}
	return base + int64(frequency)
}
