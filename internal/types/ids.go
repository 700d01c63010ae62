package types

import "github.com/google/uuid"

// Short prefixed identifiers, e.g. ldg_3f9a02bc. The prefix makes ids
// self-describing in logs and webhook payloads.
func shortID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

func NewLedgerID() string { return shortID("ldg") }
func NewEventID() string  { return shortID("evt") }
func NewBriefID() string  { return shortID("brf") }
func NewAssetID() string  { return shortID("ast") }
func NewOutputID() string { return shortID("out") }
