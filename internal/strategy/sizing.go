package strategy

// PositionSize suggests a position size from the account balance: a
// fixed percentage of the balance, floored at the exchange minimum.
func PositionSize(balance, percent, minSize float64) float64 {
	size := balance * percent / 100
	if size < minSize {
		return minSize
	}
	return size
}
