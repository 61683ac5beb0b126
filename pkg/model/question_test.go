package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestQuestionTypeString(t *testing.T) {
	for _, qt := range QuestionTypeValues() {
		parsed, err := QuestionTypeString(qt.String())
		require.NoError(t, err)
		assert.Equal(t, qt, parsed)
	}
	assert.Equal(t, "single_choice", QuestionTypeSingleChoice.String())
	_, err := QuestionTypeString("essay")
	assert.Error(t, err)
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"text without options", Question{Type: QuestionTypeText}, false},
		{"yes no", Question{Type: QuestionTypeYesNo}, false},
		{"single choice", Question{Type: QuestionTypeSingleChoice, Options: datatypes.JSON(`{"choices":["a","b"]}`)}, false},
		{"single choice one option", Question{Type: QuestionTypeSingleChoice, Options: datatypes.JSON(`{"choices":["a"]}`)}, true},
		{"multiple choice duplicate", Question{Type: QuestionTypeMultipleChoice, Options: datatypes.JSON(`{"choices":["a","a"]}`)}, true},
		{"choice missing options", Question{Type: QuestionTypeMultipleChoice}, true},
		{"rating default", Question{Type: QuestionTypeRating}, false},
		{"rating inverted", Question{Type: QuestionTypeRating, Options: datatypes.JSON(`{"min":5,"max":1}`)}, true},
		{"rating too wide", Question{Type: QuestionTypeRating, Options: datatypes.JSON(`{"min":0,"max":100}`)}, true},
		{"malformed json", Question{Type: QuestionTypeText, Options: datatypes.JSON(`{`)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.ValidateOptions()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAnswer(t *testing.T) {
	choices := datatypes.JSON(`{"choices":["Go","Rust","Zig"]}`)

	tests := []struct {
		name    string
		q       Question
		value   string
		wantErr bool
	}{
		{"text ok", Question{Type: QuestionTypeText}, `"great talk"`, false},
		{"text blank", Question{Type: QuestionTypeText}, `"   "`, true},
		{"text too long", Question{Type: QuestionTypeText, Options: datatypes.JSON(`{"maxLength":3}`)}, `"abcd"`, true},
		{"text number", Question{Type: QuestionTypeText}, `4`, true},
		{"single ok", Question{Type: QuestionTypeSingleChoice, Options: choices}, `"Go"`, false},
		{"single unknown", Question{Type: QuestionTypeSingleChoice, Options: choices}, `"Java"`, true},
		{"multi ok", Question{Type: QuestionTypeMultipleChoice, Options: choices}, `["Go","Zig"]`, false},
		{"multi empty", Question{Type: QuestionTypeMultipleChoice, Options: choices}, `[]`, true},
		{"multi repeated", Question{Type: QuestionTypeMultipleChoice, Options: choices}, `["Go","Go"]`, true},
		{"rating ok", Question{Type: QuestionTypeRating}, `5`, false},
		{"rating out of range", Question{Type: QuestionTypeRating}, `6`, true},
		{"rating fractional", Question{Type: QuestionTypeRating}, `3.5`, true},
		{"rating custom range", Question{Type: QuestionTypeRating, Options: datatypes.JSON(`{"min":0,"max":10}`)}, `0`, false},
		{"yes no ok", Question{Type: QuestionTypeYesNo}, `false`, false},
		{"yes no string", Question{Type: QuestionTypeYesNo}, `"yes"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.ValidateAnswer([]byte(tt.value))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAnswer)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsEmptyAnswer(t *testing.T) {
	assert.True(t, IsEmptyAnswer(nil))
	assert.True(t, IsEmptyAnswer([]byte("null")))
	assert.True(t, IsEmptyAnswer([]byte(`""`)))
	assert.True(t, IsEmptyAnswer([]byte("[]")))
	assert.False(t, IsEmptyAnswer([]byte("false")))
	assert.False(t, IsEmptyAnswer([]byte("0")))
}

func TestPasswordResetUsable(t *testing.T) {
	now := mustTime(t, "2026-05-01T10:00:00Z")
	reset := PasswordReset{ExpiresAt: now.Add(time4h)}
	assert.True(t, reset.Usable(now))
	assert.False(t, reset.Usable(now.Add(2*time4h)))

	used := now
	reset.UsedAt = &used
	assert.False(t, reset.Usable(now))
}

func TestNewURLCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code := NewURLCode()
		assert.Len(t, code, URLCodeLength)
		assert.Regexp(t, `^[A-HJ-NP-Z2-9]{8}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190)
	assert.Equal(t, "K7M2Q9XD", NormalizeURLCode(" k7m2q9xd "))
}
