package notify

import (
	"encoding/json"
	"testing"

	"github.com/roboricindustries/raycon-notify/pkg/hybrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainPayload_DisabledFieldsAreEmpty(t *testing.T) {
	d := Draft{Subject: Field{Value: "ignored"}, Body: "hello", CTA: On("https://x")}

	p, err := PlainPayload(Targeted{To: "0xa"}, d)
	require.NoError(t, err)
	assert.Equal(t, "", p.Notification.Title)
	assert.Equal(t, "hello", p.Notification.Body)
	assert.Equal(t, "3", p.Data.Type)
	assert.Equal(t, "", p.Data.ASub)
	assert.Equal(t, "hello", p.Data.AMsg)
	assert.Equal(t, "https://x", p.Data.ACTA)
	assert.Equal(t, "", p.Data.AImg)
	assert.Nil(t, p.Recipients)
}

func TestPlainPayload_WireShape(t *testing.T) {
	p, err := PlainPayload(Broadcast{Channel: "0xc"}, Draft{Body: "hi"})
	require.NoError(t, err)
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"notification": {"title": "", "body": "hi"},
		"data": {"type": "1", "asub": "", "amsg": "hi", "acta": "", "aimg": ""}
	}`, string(raw))

	p, err = PlainPayload(Subset{Channel: "0xc", Recipients: []string{"0xa", "0xb"}}, Draft{Body: "hi"})
	require.NoError(t, err)
	raw, err = json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"notification": {"title": "", "body": "hi"},
		"data": {"type": "4", "asub": "", "amsg": "hi", "acta": "", "aimg": ""},
		"recipients": ["0xa", "0xb"]
	}`, string(raw))
}

func TestPlainPayload_RejectsSecret(t *testing.T) {
	_, err := PlainPayload(Secret{To: "0xa"}, Draft{Body: "x"})
	assert.Error(t, err)
}

func TestSecretPayload(t *testing.T) {
	env := hybrid.Envelope{Secret: "04ab", Subject: "s", Body: "b", CTA: "c", Media: "m"}
	p := SecretPayload(Secret{To: "0xa"}, env)

	assert.Equal(t, SecretTitle, p.Notification.Title)
	assert.Equal(t, SecretBody, p.Notification.Body)
	assert.Equal(t, "2", p.Data.Type)
	assert.Equal(t, "04ab", p.Data.Secret)
	assert.Equal(t, "s", p.Data.ASub)
	assert.Equal(t, "b", p.Data.AMsg)
	assert.Equal(t, "c", p.Data.ACTA)
	assert.Equal(t, "m", p.Data.AImg)
	assert.True(t, p.IsSecret())
}
