package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ModeSwitchResetsRecipients(t *testing.T) {
	s := NewSession("0xchannel")
	s.SetMode(CodeSubset)
	s.SetPending("0xa")
	s.KeyPress("Enter")
	require.Equal(t, []string{"0xa"}, s.Recipients())

	s.SetMode(CodeSubset)
	assert.Empty(t, s.Recipients(), "even the same mode clears recipients")

	s.SetMode(CodeTargeted)
	s.SetRecipient("0xb")
	assert.Equal(t, Targeted{To: "0xb"}, s.Mode())

	s.SetMode(CodeSecret)
	assert.Equal(t, Secret{To: ""}, s.Mode())
}

func TestSession_Mode(t *testing.T) {
	s := NewSession("0xchannel")
	assert.Nil(t, s.Mode())

	s.SetMode(CodeBroadcast)
	assert.Equal(t, Broadcast{Channel: "0xchannel"}, s.Mode())

	s.SetMode(CodeSubset)
	s.SetPending("0xa")
	s.KeyPress(",")
	s.SetPending("0xb")
	s.KeyPress(",")
	s.RemoveRecipient("0xa")
	assert.Equal(t, Subset{Channel: "0xchannel", Recipients: []string{"0xb"}}, s.Mode())
}

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession("0xchannel")
	s.SetMode(CodeTargeted)
	s.SetRecipient("0xa")
	s.Edit(func(d *Draft) { d.Body = "hi" })

	state, info := s.State()
	assert.Equal(t, StateIdle, state)
	assert.Empty(t, info)

	mode, draft, err := s.begin()
	require.NoError(t, err)
	assert.Equal(t, Targeted{To: "0xa"}, mode)
	assert.Equal(t, "hi", draft.Body)

	_, _, err = s.begin()
	assert.ErrorIs(t, err, ErrAttemptInProgress)

	s.Cancel()
	state, _ = s.State()
	assert.Equal(t, StateProcessing, state, "cancel does not interrupt processing")

	s.progress(InfoUploading)
	_, info = s.State()
	assert.Equal(t, InfoUploading, info)

	s.complete()
	state, info = s.State()
	assert.Equal(t, StateCompleted, state)
	assert.Equal(t, InfoCompleted, info)
	assert.Equal(t, Draft{}, s.Draft())
	assert.Equal(t, CodeTargeted, s.ModeCode(), "mode survives completion")
	assert.Equal(t, Targeted{To: ""}, s.Mode())
}

func TestSession_FailKeepsDraft(t *testing.T) {
	s := NewSession("0xchannel")
	s.SetMode(CodeBroadcast)
	s.Edit(func(d *Draft) { d.Body = "hi" })

	_, _, err := s.begin()
	require.NoError(t, err)
	derr := &DispatchError{Kind: KindStorage, Info: "Storage Upload Error"}
	s.fail(derr)

	state, info := s.State()
	assert.Equal(t, StateFailed, state)
	assert.Equal(t, "Storage Upload Error", info)
	assert.ErrorIs(t, s.Err(), ErrStorage)
	assert.Equal(t, "hi", s.Draft().Body)

	// A failed session may be retried by the owner.
	_, _, err = s.begin()
	require.NoError(t, err)
	assert.NoError(t, s.Err())

	s.fail(derr)
	s.Cancel()
	state, info = s.State()
	assert.Equal(t, StateIdle, state)
	assert.Empty(t, info)
	assert.Equal(t, Draft{}, s.Draft())
}

func TestSession_EditCallbackMayUseSession(t *testing.T) {
	s := NewSession("0xchannel")
	s.SetMode(CodeBroadcast)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Edit(func(d *Draft) {
			state, _ := s.State()
			d.Body = "state was " + state.String()
			d.Subject = On(s.Mode().Code().Name())
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Edit callback blocked on the session lock")
	}
	assert.Equal(t, Draft{Subject: On("broadcast"), Body: "state was idle"}, s.Draft())
}
