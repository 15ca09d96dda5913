package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModal_ShowAddressKeepsMessageWhenEmpty(t *testing.T) {
	s := Transition(NewState(), SetAddressModalMessage{Message: "Out of delivery zone"})
	assert.False(t, s.IsAddressModalVisible, "setting the message does not show the dialog")

	s = Transition(s, ShowAddressModal{})
	assert.True(t, s.IsAddressModalVisible)
	assert.Equal(t, "Out of delivery zone", s.AddressModalMessage)

	s = Transition(s, ShowAddressModal{Message: "Address required"})
	assert.Equal(t, "Address required", s.AddressModalMessage)
}

func TestModal_HideAddressIsIdempotent(t *testing.T) {
	s := Transition(NewState(), ShowAddressModal{Message: "Address required"})

	once := Transition(s, HideAddressModal{})
	twice := Transition(once, HideAddressModal{})

	assert.Equal(t, once, twice)
	assert.False(t, twice.IsAddressModalVisible)
	assert.Empty(t, twice.AddressModalMessage)
}

func TestModal_SessionExpiredFlagOutlivesDialog(t *testing.T) {
	s := Transition(NewState(), SessionExpired{})
	assert.True(t, s.IsSessionExpired)
	assert.True(t, s.IsExpiredSessionModalVisible)

	s = Transition(s, HideExpiredSessionModal{})
	assert.True(t, s.IsSessionExpired)
	assert.False(t, s.IsExpiredSessionModalVisible)

	s = Transition(s, ShowExpiredSessionModal{})
	assert.True(t, s.IsExpiredSessionModalVisible)
}

func TestModal_SequenceNeverShowsBoth(t *testing.T) {
	s := Transition(NewState(), SetAddressModalHidden{Hidden: false})
	s = Transition(s, ShowAddressModal{Message: "Address required"})
	assert.True(t, s.IsAddressModalVisible)

	for _, e := range []Event{HideAddressModal{}, SetAddressModalHidden{Hidden: true}, ShowExpiredSessionModal{}} {
		s = Transition(s, e)
		assert.False(t, s.IsAddressModalVisible && s.IsExpiredSessionModalVisible, "both dialogs visible after %s", e.Kind())
	}

	assert.False(t, s.IsAddressModalVisible)
	assert.True(t, s.IsExpiredSessionModalVisible)
	assert.True(t, s.IsAddressModalHidden)
}
