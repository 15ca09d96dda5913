package session

// applyModal handles the dialog events. Ordering between the two dialogs is
// not enforced here; see the modal package.
func applyModal(s *State, e Event) *State {
	next := *s

	switch e := e.(type) {
	case ShowAddressModal:
		next.IsAddressModalVisible = true
		if e.Message != "" {
			next.AddressModalMessage = e.Message
		}

	case HideAddressModal:
		next.IsAddressModalVisible = false
		next.AddressModalMessage = ""

	case SetAddressModalMessage:
		next.AddressModalMessage = e.Message

	case SetAddressModalHidden:
		next.IsAddressModalHidden = e.Hidden

	case ShowExpiredSessionModal:
		next.IsExpiredSessionModalVisible = true

	case HideExpiredSessionModal:
		next.IsExpiredSessionModalVisible = false

	case SessionExpired:
		// the flag outlives the dialog and gates re-authentication
		next.IsSessionExpired = true
		next.IsExpiredSessionModalVisible = true

	default:
		return s
	}

	return &next
}
