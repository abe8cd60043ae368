package security

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NodeRole identifies what kind of node authored a message.
type NodeRole string

const (
	RoleController  NodeRole = "controller"   // orchestrator / controller UI
	RoleZoneDisplay NodeRole = "zone_display" // client rendering ads in a zone
	RoleSystem      NodeRole = "system"       // backend services, monitoring
)

// MessageHeader carries the metadata of a signed message: who sent it, in
// which role, when, and with which algorithm.  The nonce is unique per
// message and, together with the timestamp, supports an anti-replay window
// at the receiving end.
type MessageHeader struct {
	NodeID    string    `json:"node_id"`
	ZoneID    *string   `json:"zone_id,omitempty"`
	Role      NodeRole  `json:"role"`
	MsgType   string    `json:"msg_type"`
	Timestamp time.Time `json:"timestamp"`
	Nonce     string    `json:"nonce"`
	Alg       string    `json:"alg"`
	Version   string    `json:"version"`
}

// SignedMessage is a complete signed envelope: header, business payload and
// the HMAC computed over both.
type SignedMessage struct {
	Header  MessageHeader  `json:"header"`
	Payload map[string]any `json:"payload"`
	HMAC    string         `json:"hmac"`
}

// canonicalBytes serializes header+payload, without the HMAC, into the byte
// form both signing and verification run over: compact JSON with every
// object's keys in sorted order, so a peer in any language reproduces the
// same digest.  The header is routed through a map because encoding/json
// sorts map keys but keeps struct fields in declaration order.
func (m *SignedMessage) canonicalBytes() ([]byte, error) {
	hdrRaw, err := json.Marshal(m.Header)
	if err != nil {
		return nil, err
	}
	var hdr map[string]any
	if err := json.Unmarshal(hdrRaw, &hdr); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{
		"header":  hdr,
		"payload": m.Payload,
	})
}

// Sign computes the envelope's HMAC with the given engine and secret and
// stores it on the message.
func (m *SignedMessage) Sign(engine *Engine, secret string) error {
	raw, err := m.canonicalBytes()
	if err != nil {
		return err
	}
	m.HMAC = engine.Sign(raw, []byte(secret))
	return nil
}

// Verify checks the stored HMAC against a recomputation.  Timestamp and
// nonce freshness are the receiver's concern, not part of this check.
func (m *SignedMessage) Verify(engine *Engine, secret string) bool {
	if m.HMAC == "" {
		return false
	}
	raw, err := m.canonicalBytes()
	if err != nil {
		return false
	}
	return engine.Verify(raw, m.HMAC, []byte(secret))
}

// NewSignedMessage builds a ready-to-send envelope: header with UTC
// timestamp, fresh nonce and the engine's algorithm name, then the HMAC
// over header+payload.
func NewSignedMessage(engine *Engine, secret, nodeID string, role NodeRole, msgType string, zoneID *string, payload map[string]any) (SignedMessage, error) {
	msg := SignedMessage{
		Header: MessageHeader{
			NodeID:    nodeID,
			ZoneID:    zoneID,
			Role:      role,
			MsgType:   msgType,
			Timestamp: time.Now().UTC(),
			Nonce:     uuid.NewString(),
			Alg:       engine.Algorithm(),
			Version:   "1.0",
		},
		Payload: payload,
	}
	if err := msg.Sign(engine, secret); err != nil {
		return SignedMessage{}, err
	}
	return msg, nil
}
