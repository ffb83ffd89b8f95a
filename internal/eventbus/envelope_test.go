package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEnvelope(t *testing.T) {
	body, err := EncodeEnvelope(EventOrderCreated, map[string]any{
		"id":         1,
		"user_id":    7,
		"product_id": 3,
		"quantity":   2,
		"status":     "pending",
	})
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{"event":"order_created","data":{"id":1,"user_id":7,"product_id":3,"quantity":2,"status":"pending"}}`,
		string(body),
	)
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"event":"user_registered","data":{"email":"a@b.com"}}`))
		require.NoError(t, err)
		assert.Equal(t, EventUserRegistered, env.Event)
		assert.Equal(t, "a@b.com", env.Data["email"])
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{not json`))
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("missing event type", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"data":{"email":"a@b.com"}}`))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestEnvelopeRoundTrip(t *testing.T) {
	body, err := EncodeEnvelope(EventUserRegistered, map[string]any{"email": "a@b.com"})
	require.NoError(t, err)

	env, err := DecodeEnvelope(body)
	require.NoError(t, err)
	assert.Equal(t, EventUserRegistered, env.Event)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, env.Data)
}
