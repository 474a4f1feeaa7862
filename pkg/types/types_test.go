package types

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"owner", "admin", "member", "viewer"} {
		role, err := ParseRole(valid)
		if err != nil {
			t.Errorf("ParseRole(%q): %v", valid, err)
		}
		if string(role) != valid {
			t.Errorf("ParseRole(%q) = %q", valid, role)
		}
		if !role.Valid() {
			t.Errorf("%q.Valid() = false", role)
		}
	}
	for _, invalid := range []string{"", "Owner", "superuser", "OWNER", "admin "} {
		if _, err := ParseRole(invalid); err == nil {
			t.Errorf("ParseRole(%q) accepted", invalid)
		}
	}
	if Role("root").Valid() {
		t.Error(`Role("root").Valid() = true`)
	}
}

func TestParseLevel(t *testing.T) {
	for _, valid := range []string{"error", "warn", "info", "debug"} {
		level, err := ParseLevel(valid)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", valid, err)
		}
		if string(level) != valid {
			t.Errorf("ParseLevel(%q) = %q", valid, level)
		}
	}
	for _, invalid := range []string{"", "trace", "WARN", "fatal"} {
		if _, err := ParseLevel(invalid); err == nil {
			t.Errorf("ParseLevel(%q) accepted", invalid)
		}
	}
}

func TestEffectiveLevelDefaultsToInfo(t *testing.T) {
	if got := (LogEntry{}).EffectiveLevel(); got != LevelInfo {
		t.Errorf("EffectiveLevel of unset = %q, want info", got)
	}
	if got := (LogEntry{Level: LevelDebug}).EffectiveLevel(); got != LevelDebug {
		t.Errorf("EffectiveLevel = %q, want debug", got)
	}
}

// Entries keep unknown metadata shapes untouched; the structure is
// opaque to the client.
func TestLogEntryMetadataPassthrough(t *testing.T) {
	raw := `{"id":"l1","appId":"a1","message":"m","metadata":{"nested":{"deep":[1,2,3]},"s":"x"}}`
	var entry LogEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatal(err)
	}
	var roundTrip map[string]interface{}
	if err := json.Unmarshal(entry.Metadata, &roundTrip); err != nil {
		t.Fatalf("metadata not valid JSON: %v", err)
	}
	if _, ok := roundTrip["nested"]; !ok {
		t.Error("nested metadata lost")
	}
}

func TestOrganizationDecoding(t *testing.T) {
	raw := `{
		"id": "org-1",
		"name": "Acme",
		"slug": "acme",
		"role": "admin",
		"settings": {"defaultRetentionDays": 30, "maxApps": 10},
		"stats": {"members": 4, "apps": 2},
		"createdAt": "2026-08-01T00:00:00Z",
		"updatedAt": "2026-08-15T00:00:00Z"
	}`
	var org Organization
	if err := json.Unmarshal([]byte(raw), &org); err != nil {
		t.Fatal(err)
	}
	if org.Role != RoleAdmin {
		t.Errorf("role = %q", org.Role)
	}
	if org.Settings == nil || org.Settings.DefaultRetentionDays != 30 {
		t.Errorf("settings = %+v", org.Settings)
	}
	if org.Stats == nil || org.Stats.Members != 4 {
		t.Errorf("stats = %+v", org.Stats)
	}
}
