package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValue_Scan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"text column", `"Go"`, `"Go"`},
		{"bytes", []byte(`["db","ops"]`), `["db","ops"]`},
		{"integer affinity", int64(5), `5`},
		{"real affinity", 4.5, `4.5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v AnswerValue
			require.NoError(t, v.Scan(tt.input))
			assert.JSONEq(t, tt.want, string(v))
		})
	}
}

func TestAnswerValue_MarshalsRaw(t *testing.T) {
	r := Response{QuestionID: 3, Value: AnswerValue(`true`)}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"value":true`)

	value, err := r.Value.Value()
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}
