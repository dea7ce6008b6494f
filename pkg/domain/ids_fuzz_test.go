package domain

import (
	"testing"
)

// FuzzParseRecordID checks that ID parsing never panics on arbitrary input
// and that every accepted value survives a String round trip.
func FuzzParseRecordID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("550E8400-E29B-41D4-A716-446655440000")
	f.Add("{550e8400-e29b-41d4-a716-446655440000}")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseRecordID(input)
		if err != nil {
			return
		}
		if id.IsNil() {
			t.Errorf("ParseRecordID(%q) accepted the nil UUID", input)
		}
		if _, err := ParseRecordID(id.String()); err != nil {
			t.Errorf("ParseRecordID(%q).String() = %q does not re-parse: %v", input, id.String(), err)
		}
	})
}
