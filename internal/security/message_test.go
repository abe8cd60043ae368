package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignedMessageRoundTrip(t *testing.T) {
	engine, err := NewEngine(ModeHMACSHA256)
	require.NoError(t, err)

	zone := "glassfloor"
	msg, err := NewSignedMessage(engine, "shared-secret", "controller-1", RoleController,
		"PLACEMENT_UPDATE", &zone, map[string]any{"screen_id": "GF-1-1", "ad_id": 7})
	require.NoError(t, err)

	assert.Equal(t, "controller-1", msg.Header.NodeID)
	require.NotNil(t, msg.Header.ZoneID)
	assert.Equal(t, "glassfloor", *msg.Header.ZoneID)
	assert.Equal(t, "HMAC_SHA256", msg.Header.Alg)
	assert.Equal(t, "1.0", msg.Header.Version)
	assert.NotEmpty(t, msg.Header.Nonce)
	assert.NotEmpty(t, msg.HMAC)

	assert.True(t, msg.Verify(engine, "shared-secret"))
	assert.False(t, msg.Verify(engine, "other-secret"))
}

func TestVerifyDetectsPayloadTampering(t *testing.T) {
	engine, err := NewEngine(ModeHMACSHA256)
	require.NoError(t, err)

	msg, err := NewSignedMessage(engine, "s3cr3t", "zone-node-4", RoleZoneDisplay,
		"ADS_LIST", nil, map[string]any{"count": 3})
	require.NoError(t, err)
	require.True(t, msg.Verify(engine, "s3cr3t"))

	msg.Payload["count"] = 4
	assert.False(t, msg.Verify(engine, "s3cr3t"))
}

func TestCanonicalBytesSortsKeys(t *testing.T) {
	zone := "glassfloor"
	msg := SignedMessage{
		Header: MessageHeader{
			NodeID:    "n1",
			ZoneID:    &zone,
			Role:      RoleController,
			MsgType:   "T",
			Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Nonce:     "abc",
			Alg:       "HMAC_SHA256",
			Version:   "1.0",
		},
		Payload: map[string]any{"b": 1, "a": "x"},
	}

	raw, err := msg.canonicalBytes()
	require.NoError(t, err)

	// Compact JSON, all object keys alphabetically sorted; this is the byte
	// form a peer in another language must be able to reproduce.
	want := `{"header":{"alg":"HMAC_SHA256","msg_type":"T","node_id":"n1",` +
		`"nonce":"abc","role":"controller","timestamp":"2026-01-02T03:04:05Z",` +
		`"version":"1.0","zone_id":"glassfloor"},"payload":{"a":"x","b":1}}`
	assert.Equal(t, want, string(raw))
}

func TestVerifyRejectsMissingHMAC(t *testing.T) {
	engine, err := NewEngine(ModeHMACSHA256)
	require.NoError(t, err)

	msg := SignedMessage{Payload: map[string]any{"a": 1}}
	assert.False(t, msg.Verify(engine, "s"))
}

func TestNoncesAreUniquePerMessage(t *testing.T) {
	engine, err := NewEngine(ModeHMACSHA256)
	require.NoError(t, err)

	a, err := NewSignedMessage(engine, "s", "n", RoleSystem, "T", nil, map[string]any{})
	require.NoError(t, err)
	b, err := NewSignedMessage(engine, "s", "n", RoleSystem, "T", nil, map[string]any{})
	require.NoError(t, err)
	assert.NotEqual(t, a.Header.Nonce, b.Header.Nonce)
}
