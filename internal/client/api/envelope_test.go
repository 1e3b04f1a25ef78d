package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	type tokenData struct {
		Token string `json:"token"`
	}

	got, err := Decode[tokenData](&Envelope{Success: true, Data: json.RawMessage(`{"token":"t1"}`)})
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)

	flag, err := Decode[bool](&Envelope{Success: true, Data: json.RawMessage(`true`)})
	require.NoError(t, err)
	assert.True(t, flag)

	ptr, err := Decode[*tokenData](&Envelope{Success: true, Data: json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Nil(t, ptr)

	_, err = Decode[tokenData](&Envelope{Success: true})
	require.NoError(t, err)

	_, err = Decode[tokenData](&Envelope{Success: false, Code: 400, Msg: "bad password"})
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, 400, rej.Code)
	assert.Equal(t, "bad password", err.Error())

	_, err = Decode[tokenData](&Envelope{Success: true, Data: json.RawMessage(`[1,2]`)})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRequestRejected)
}

func TestIsExpired(t *testing.T) {
	assert.False(t, IsExpired(nil))
	assert.True(t, IsExpired(&SessionExpiredError{}))
	assert.True(t, IsExpired(errWrap(&SessionExpiredError{Message: "x"})))
	assert.False(t, IsExpired(&RejectedError{Msg: "wrong password"}))

	// typed errors are judged by type, not by wording
	assert.False(t, IsExpired(&RejectedError{Code: 400, Msg: "invalid or expired verification code"}))
	assert.False(t, IsExpired(errWrap(&RejectedError{Code: 400, Msg: "status 401"})))
	assert.False(t, IsExpired(&TransportError{Status: 502, Err: errors.New("upstream token expired")}))
	assert.False(t, IsExpired(&ValidationError{Field: "captcha", Reason: "expired"}))

	// untyped errors fall back to the message
	assert.True(t, IsExpired(errors.New("Token Expired")))
	assert.True(t, IsExpired(errors.New("status 401")))
	assert.False(t, IsExpired(errors.New("code 4012")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "transport error", (&TransportError{}).Error())
	assert.Equal(t, "transport error: 502 Bad Gateway", (&TransportError{Status: 502, StatusText: "Bad Gateway"}).Error())
	assert.Equal(t, "request rejected (code 409)", (&RejectedError{Code: 409}).Error())
	assert.Equal(t, "email: is required", (&ValidationError{Field: "email", Reason: "is required"}).Error())
	assert.ErrorIs(t, &ValidationError{}, ErrValidation)
}

func errWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "login: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
