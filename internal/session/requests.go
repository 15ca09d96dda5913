package session

// The item request stack is an ordered multiset of request identifiers. An
// identifier names a logical add-to-cart intent, so repeated taps on the same
// product push the same identifier several times.

func pushRequest(stack []string, identifier string) []string {
	next := make([]string, len(stack), len(stack)+1)
	copy(next, stack)
	return append(next, identifier)
}

// releaseRequest removes the most recent occurrence of identifier. Completions
// that match nothing (late responses after a Clear, duplicates) report false.
func releaseRequest(stack []string, identifier string) ([]string, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] != identifier {
			continue
		}
		next := make([]string, 0, len(stack)-1)
		next = append(next, stack[:i]...)
		next = append(next, stack[i+1:]...)
		return next, true
	}
	return stack, false
}
