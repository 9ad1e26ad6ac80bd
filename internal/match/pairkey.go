package match

// pairSeparator joins the two member ids of a PairKey.
const pairSeparator = "_"

// PairKey derives the deterministic, order-independent identity for a
// two-party relationship: the lexicographically smaller id first, joined by
// a fixed separator. PairKey(a, b) == PairKey(b, a) for all a != b, so both
// parties converge on the same match id and conversation document without
// coordination.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + pairSeparator + b
}
