package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValueUnmarshal(t *testing.T) {
	var p ContactPayload
	body := `{"firstName":"  Ada ","lastName":42,"name":null,"company":{"x":1},"message":"   "}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.True(t, p.FirstName.IsString)
	assert.Equal(t, "Ada", p.FirstName.Text())
	assert.True(t, p.FirstName.Filled())

	assert.True(t, p.LastName.Present)
	assert.False(t, p.LastName.IsString)
	assert.Equal(t, "", p.LastName.Text())

	assert.True(t, p.Name.Present)
	assert.False(t, p.Name.IsString)

	assert.True(t, p.Company.Present)
	assert.False(t, p.Company.Filled())

	assert.True(t, p.Message.IsString)
	assert.False(t, p.Message.Filled())

	assert.False(t, p.Email.Present)
}

func TestConsentStrictTrue(t *testing.T) {
	cases := map[string]bool{
		`{"consent":true}`:   true,
		`{"consent":"true"}`: false,
		`{"consent":1}`:      false,
		`{"consent":"yes"}`:  false,
		`{"consent":false}`:  false,
		`{}`:                 false,
	}
	for body, want := range cases {
		var p ContactPayload
		require.NoError(t, json.Unmarshal([]byte(body), &p), body)
		assert.Equal(t, want, bool(p.Consent), body)
	}
}

func TestContactIsSpam(t *testing.T) {
	assert.False(t, ContactPayload{}.IsSpam())
	assert.False(t, ContactPayload{HP: NewFormValue("   ")}.IsSpam())
	assert.True(t, ContactPayload{HP: NewFormValue("bot")}.IsSpam())
	assert.True(t, ContactPayload{Website: NewFormValue("http://spam.example")}.IsSpam())

	var p ContactPayload
	require.NoError(t, json.Unmarshal([]byte(`{"hp":true}`), &p))
	assert.False(t, p.IsSpam())
}

func TestNewsletterIsSpam(t *testing.T) {
	assert.False(t, NewsletterPayload{}.IsSpam())
	assert.True(t, NewsletterPayload{HP: NewFormValue("bot")}.IsSpam())
}

func TestWantsAdvanced(t *testing.T) {
	assert.False(t, ContactPayload{Name: NewFormValue("Jordan")}.WantsAdvanced())
	assert.False(t, ContactPayload{Company: NewFormValue("  ")}.WantsAdvanced())
	assert.True(t, ContactPayload{Company: NewFormValue("Acme")}.WantsAdvanced())
	assert.True(t, ContactPayload{Timeline: NewFormValue("Q3")}.WantsAdvanced())
}

func TestFormValueMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A FormValue `json:"a"`
		B FormValue `json:"b"`
	}{A: NewFormValue("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(out))
}
