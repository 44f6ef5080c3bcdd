package login

import (
	"testing"

	"github.com/panelctl/panelctl/pkg/auth"
	"github.com/stretchr/testify/assert"
)

func TestFormSetters(t *testing.T) {
	f := NewForm()
	assert.Equal(t, Status{State: Idle}, f.Status())

	f.SetUsername("admin")
	f.SetUsername("root")
	f.SetPassword("pw")
	f.SetError("boom")
	f.SetLoading(true)

	assert.Equal(t, "root", f.Username())
	assert.Equal(t, "pw", f.Password())
	assert.Equal(t, "boom", f.Error())
	assert.True(t, f.Loading())
	assert.Equal(t, auth.Credentials{Username: "root", Password: "pw"}, f.Credentials())
}

func TestFormBegin(t *testing.T) {
	f := NewForm()
	f.SetError("previous failure")

	assert.True(t, f.begin())
	assert.Equal(t, "", f.Error())
	assert.Equal(t, InFlight, f.Status().State)

	assert.False(t, f.begin())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "in-flight", InFlight.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "succeeded", Succeeded.String())
}
