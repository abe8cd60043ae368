// Package security implements the HMAC signing layer used to protect
// control messages between the backend and display nodes.  It is a
// transport add-on: nothing on the placement or recommendation path depends
// on it, and it only activates when a signing secret is configured.
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"os"

	"golang.org/x/crypto/sha3"
)

// Mode names a supported HMAC construction.
type Mode string

const (
	// ModeHMACSHA256 is HMAC over SHA-256 (SHA-2 family).  This is the default.
	ModeHMACSHA256 Mode = "HMAC_SHA256"
	// ModeHMACSHA3256 is HMAC over SHA3-256 (SHA-3 family).
	ModeHMACSHA3256 Mode = "HMAC_SHA3_256"
)

// ModeFromEnv reads CRYPTO_MODE and falls back to HMAC_SHA256 when the
// variable is unset or holds an unknown value.
func ModeFromEnv() Mode {
	switch Mode(os.Getenv("CRYPTO_MODE")) {
	case ModeHMACSHA3256:
		return ModeHMACSHA3256
	default:
		return ModeHMACSHA256
	}
}

// Engine signs and verifies byte messages under one fixed mode.  Keeping
// the mode behind this type lets a different construction be swapped in
// later without touching the call sites.
type Engine struct {
	mode Mode
}

// NewEngine builds an engine for the given mode.
func NewEngine(mode Mode) (*Engine, error) {
	switch mode {
	case ModeHMACSHA256, ModeHMACSHA3256:
		return &Engine{mode: mode}, nil
	default:
		return nil, fmt.Errorf("unsupported crypto mode: %q", mode)
	}
}

// Algorithm returns the mode name written into message headers.
func (e *Engine) Algorithm() string {
	return string(e.mode)
}

// digest returns the hash constructor matching the engine's mode.
func (e *Engine) digest() func() hash.Hash {
	if e.mode == ModeHMACSHA3256 {
		return sha3.New256
	}
	return sha256.New
}

// Sign computes the HMAC of message under secret and returns it hex encoded.
func (e *Engine) Sign(message, secret []byte) string {
	mac := hmac.New(e.digest(), secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the HMAC and compares it against signatureHex in
// constant time.
func (e *Engine) Verify(message []byte, signatureHex string, secret []byte) bool {
	expected := e.Sign(message, secret)
	return hmac.Equal([]byte(expected), []byte(signatureHex))
}
