package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatedText(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{name: "libretranslate field", body: `{"translatedText":"Xin chào"}`, want: "Xin chào"},
		{name: "translation field", body: `{"translation":"Bonjour"}`, want: "Bonjour"},
		{name: "result field", body: `{"result":"Hola"}`, want: "Hola"},
		{name: "first value fallback", body: `{"status":200,"text":"Ciao"}`, want: "Ciao"},
		{name: "earlier rule wins", body: `{"result":"second","translatedText":"first"}`, want: "first"},
		{name: "empty field falls through to next rule", body: `{"translatedText":"","translation":"Hallo"}`, want: "Hallo"},
		{name: "only empty strings", body: `{"translatedText":""}`, wantErr: ErrEmpty},
		{name: "empty named field skips first value", body: `{"detectedLanguage":"en","translatedText":""}`, wantErr: ErrEmpty},
		{name: "empty result field skips first value", body: `{"status":"ok","result":"  "}`, wantErr: ErrEmpty},
		{name: "whitespace only", body: `{"translatedText":"   "}`, wantErr: ErrEmpty},
		{name: "no string values", body: `{"code":1,"ok":true}`, wantErr: ErrUnparseable},
		{name: "array body", body: `["Xin chào"]`, wantErr: ErrUnparseable},
		{name: "invalid json", body: `<html>oops</html>`, wantErr: ErrUnparseable},
		{name: "non-string translatedText", body: `{"translatedText":42}`, wantErr: ErrUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TranslatedText([]byte(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslationRulesOrder(t *testing.T) {
	names := make([]string, 0, len(TranslationRules))
	for _, r := range TranslationRules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"translatedText", "translation", "result", "first-value"}, names)
}

func TestSegmentedTranslation(t *testing.T) {
	t.Run("joins segments", func(t *testing.T) {
		body := `[[["Xin chào. ","Hello. ",null,null,10],["Bạn khỏe không?","How are you?",null,null,10]],null,"en"]`
		got, err := SegmentedTranslation([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, "Xin chào. Bạn khỏe không?", got)
	})

	t.Run("empty segments", func(t *testing.T) {
		_, err := SegmentedTranslation([]byte(`[[],null,"en"]`))
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("object body", func(t *testing.T) {
		_, err := SegmentedTranslation([]byte(`{"translatedText":"x"}`))
		assert.ErrorIs(t, err, ErrUnparseable)
	})

	t.Run("plain text body", func(t *testing.T) {
		_, err := SegmentedTranslation([]byte(`Xin chào`))
		assert.ErrorIs(t, err, ErrUnparseable)
	})
}
