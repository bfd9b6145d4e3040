package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapWithCode_Chain(t *testing.T) {
	err := Precondition("Please select an image style before generating images.")

	assert.True(t, IsPrecondition(err))
	assert.False(t, IsBusy(err))
	assert.Equal(t, CodePrecondition, GetCode(err))
	assert.Equal(t, "Please select an image style before generating images.", GetMessage(err))
}

func TestUpstream_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("quota exceeded")
	err := Upstream(cause, "Failed to generate images. Please try again.")

	assert.True(t, IsUpstream(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeUpstream, GetCode(err))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, WrapWithCode(nil, CodeBusy, "x"))
	assert.Nil(t, Upstream(nil, "x"))
	assert.Equal(t, "", GetMessage(nil))
}

func TestGetMessage_PlainError(t *testing.T) {
	assert.Equal(t, "boom", GetMessage(fmt.Errorf("boom")))
	assert.Equal(t, "", GetCode(fmt.Errorf("boom")))
}
