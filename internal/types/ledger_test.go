package types

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestNewLedgerEntryInvariants(t *testing.T) {
	owner := Owner{Name: "Sarah Chen", Email: "sarah@company.com"}
	entry := NewLedgerEntry("Q1 Launch", owner, []string{"instagram", "email"}, map[string]any{"objective": "awareness"}, "")

	if entry.Status != StatusIntake {
		t.Fatalf("new entry status=%s, want %s", entry.Status, StatusIntake)
	}
	if !strings.HasPrefix(entry.LedgerID, "ldg_") {
		t.Fatalf("ledger id %q missing ldg_ prefix", entry.LedgerID)
	}
	if !strings.HasPrefix(entry.Brief.BriefID, "brf_") {
		t.Fatalf("default brief id %q missing brf_ prefix", entry.Brief.BriefID)
	}
	if len(entry.Events) != 1 {
		t.Fatalf("new entry has %d events, want 1", len(entry.Events))
	}
	created := entry.Events[0]
	if created.Type != EventTypeCreated {
		t.Fatalf("first event type=%s, want %s", created.Type, EventTypeCreated)
	}
	if created.Actor != owner.Email {
		t.Fatalf("created event actor=%s, want %s", created.Actor, owner.Email)
	}
	if created.LedgerID != entry.LedgerID {
		t.Fatalf("created event ledger id=%s, want %s", created.LedgerID, entry.LedgerID)
	}
	if !entry.CreatedAt.Equal(entry.UpdatedAt) {
		t.Fatalf("created_at %v != updated_at %v on fresh entry", entry.CreatedAt, entry.UpdatedAt)
	}
	if entry.Assets == nil || entry.Outputs == nil {
		t.Fatalf("assets/outputs must be initialized, got %v / %v", entry.Assets, entry.Outputs)
	}
}

func TestNewLedgerEntryKeepsExplicitBriefID(t *testing.T) {
	entry := NewLedgerEntry("p", Owner{Name: "a", Email: "a@x.com"}, nil, nil, "brf_custom")
	if entry.Brief.BriefID != "brf_custom" {
		t.Fatalf("brief id=%s, want brf_custom", entry.Brief.BriefID)
	}
	if entry.Channels == nil || len(entry.Channels) != 0 {
		t.Fatalf("nil channels should become empty slice, got %v", entry.Channels)
	}
	if entry.Brief.Snapshot == nil {
		t.Fatalf("nil snapshot should become empty map")
	}
}

func TestLedgerEntryJSONRoundTrip(t *testing.T) {
	owner := Owner{Name: "Alex Kim", Email: "alex@company.com"}
	snapshot := map[string]any{
		"objective": "launch new product line",
		"audience":  []any{"creators", "smb"},
	}
	entry := NewLedgerEntry("Product Launch - Widget Pro", owner, []string{"instagram", "youtube", "landing"}, snapshot, "brf_003")

	raw, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Empty reserved collections must serialize as [], not null.
	for _, key := range []string{`"assets":[]`, `"outputs":[]`} {
		if !bytes.Contains(raw, []byte(key)) {
			t.Fatalf("serialized entry missing %s: %s", key, raw)
		}
	}

	var decoded LedgerEntry
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.LedgerID != entry.LedgerID || decoded.ProjectName != entry.ProjectName {
		t.Fatalf("identity fields changed: %+v vs %+v", decoded, entry)
	}
	if decoded.Status != StatusIntake {
		t.Fatalf("status=%s after round trip, want intake", decoded.Status)
	}
	if decoded.Owner != owner {
		t.Fatalf("owner changed: %+v", decoded.Owner)
	}
	if decoded.Brief.BriefID != "brf_003" {
		t.Fatalf("brief id changed: %s", decoded.Brief.BriefID)
	}
	if !reflect.DeepEqual(map[string]any(decoded.Brief.Snapshot), snapshot) {
		t.Fatalf("snapshot changed: %#v vs %#v", decoded.Brief.Snapshot, snapshot)
	}
	if !reflect.DeepEqual([]string(decoded.Channels), []string{"instagram", "youtube", "landing"}) {
		t.Fatalf("channels changed: %v", decoded.Channels)
	}
	if !decoded.CreatedAt.Equal(entry.CreatedAt) || !decoded.UpdatedAt.Equal(entry.UpdatedAt) {
		t.Fatalf("timestamps changed across round trip")
	}
	if len(decoded.Events) != 1 || decoded.Events[0].Type != EventTypeCreated || decoded.Events[0].Actor != owner.Email {
		t.Fatalf("events changed: %+v", decoded.Events)
	}
	if !decoded.Events[0].Timestamp.Equal(entry.Events[0].Timestamp) {
		t.Fatalf("event timestamp changed across round trip")
	}

	// A second marshal must be byte-identical: serialization is stable.
	again, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(raw, again) {
		t.Fatalf("round trip not stable:\n%s\n%s", raw, again)
	}
}

func TestShortIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewEventID()
		if !strings.HasPrefix(id, "evt_") || len(id) != len("evt_")+8 {
			t.Fatalf("unexpected event id shape: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}
