package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"object", `{"a":1}`, true},
		{"padded object", "  {\"a\":1}\n", true},
		{"serialized object", `"{\"a\":1}"`, true},
		{"double serialized", `"\"{\\\"a\\\":1}\""`, true},
		{"plain string", `"hello"`, false},
		{"number", `42`, false},
		{"array", `[1,2]`, false},
		{"null", `null`, false},
		{"empty", ``, false},
		{"truncated object", `{"a":`, false},
		{"unterminated string", `"{\"a\":1}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := unwrapObject([]byte(tt.raw))
			assert.Equal(t, tt.ok, err == nil, "err=%v", err)
		})
	}
}

func TestParsePayloadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want payload
	}{
		{
			name: "nested labels with snake case",
			raw:  `{"column_id":"status6__1","pulse_id":42,"pulse_name":"Acme","previous_value":{"label":{"text":"Prospect - 25%"}},"value":{"label":{"text":"Opportunity - 50%"}}}`,
			want: payload{field: "status6__1", previous: "Prospect - 25%", next: "Opportunity - 50%", itemID: "42", itemName: "Acme"},
		},
		{
			name: "camel case with top-level text",
			raw:  `{"columnId":"status6__1","itemId":"7","itemName":"Globex","fromValue":{"text":"On-hold"},"toValue":{"text":"Closed/Declined"}}`,
			want: payload{field: "status6__1", previous: "On-hold", next: "Closed/Declined", itemID: "7", itemName: "Globex"},
		},
		{
			name: "serialized label values",
			raw:  `{"previous_value":"{\"label\":{\"text\":\"Forecast - 75%\"}}","to_value":"{\"text\":\"Forecast - 90%\"}","entity":{"id":9,"name":"Initech"}}`,
			want: payload{previous: "Forecast - 75%", next: "Forecast - 90%", itemID: "9", itemName: "Initech"},
		},
		{
			name: "nested label wins over top-level text",
			raw:  `{"previousValue":{"label":{"text":"A"},"text":"B"},"value":{"text":"  C   D "}}`,
			want: payload{previous: "A", next: "C D"},
		},
		{
			name: "empty label falls through to text",
			raw:  `{"previousValue":{"label":{"text":"  "},"text":"B"}}`,
			want: payload{previous: "B"},
		},
		{
			name: "labels missing",
			raw:  `{"column_id":"status6__1","pulse_id":"1","value":"plain text"}`,
			want: payload{field: "status6__1", itemID: "1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePayload([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstOfReportsStrategy(t *testing.T) {
	obj := []byte(`{"item_id":"","entity":{"id":"55"}}`)
	v, strategy, ok := firstOf(obj, itemIDAttempts)
	require.True(t, ok)
	assert.Equal(t, "55", v)
	assert.Equal(t, "entity.id", strategy)

	_, _, ok = firstOf([]byte(`{}`), itemIDAttempts)
	assert.False(t, ok)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "Forecast - 75%", normalizeLabel("  Forecast \t -\n 75%  "))
	assert.Equal(t, "", normalizeLabel(" \n "))
}

func TestFillFromEntity(t *testing.T) {
	p := payload{}
	p.fillFromEntity([]byte(` {"id":"12","name":"Hooli"}`))
	assert.Equal(t, payload{itemID: "12", itemName: "Hooli"}, p)

	p = payload{itemName: "From payload"}
	p.fillFromEntity([]byte(`{"id":5,"name":"Ignored"}`))
	assert.Equal(t, payload{itemID: "5", itemName: "From payload"}, p)

	for _, entity := range []string{``, `"pulse"`, `null`, `{"name":"no id"}`} {
		p = payload{}
		p.fillFromEntity([]byte(entity))
		assert.Empty(t, p.itemID, entity)
	}
}
