package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "chancery/pkg/domain-errors"
)

func TestParseRecordID(t *testing.T) {
	id, err := ParseRecordID("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	assert.False(t, id.IsNil())
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a uuid", "decreto-5"},
		{"nil uuid", "00000000-0000-0000-0000-000000000000"},
		{"truncated", "550e8400-e29b-41d4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParishID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestTypedIDsRoundTripJSON(t *testing.T) {
	type scope struct {
		Diocese DioceseID `json:"diocese"`
		Parish  ParishID  `json:"parish"`
	}

	dioceseID, err := ParseDioceseID("3c34a7a6-5ba2-4b84-87fd-7d38c21031ae")
	require.NoError(t, err)
	parishID, err := ParseParishID("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)

	raw, err := json.Marshal(scope{Diocese: dioceseID, Parish: parishID})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"diocese":"3c34a7a6-5ba2-4b84-87fd-7d38c21031ae","parish":"550e8400-e29b-41d4-a716-446655440000"}`,
		string(raw))

	var decoded scope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, dioceseID, decoded.Diocese)
	assert.Equal(t, parishID, decoded.Parish)
}

func TestZeroValueIsNil(t *testing.T) {
	assert.True(t, DioceseID{}.IsNil())
	assert.True(t, ParishID{}.IsNil())
	assert.True(t, RecordID{}.IsNil())
	assert.True(t, DecreeID{}.IsNil())
	assert.True(t, ConceptID{}.IsNil())
}
