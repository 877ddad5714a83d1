package models

const (
	DefaultSourceLang = "en"
	DefaultTargetLang = "vi"
)

// TranslateInput is the request for the translate operation
type TranslateInput struct {
	Text   string `json:"text" validate:"required,max=5000"`
	Source string `json:"source" validate:"required,langcode"`
	Target string `json:"target" validate:"required,langcode"`
}

// ApplyDefaults fills in the default language pair
func (in *TranslateInput) ApplyDefaults() {
	if in.Source == "" {
		in.Source = DefaultSourceLang
	}
	if in.Target == "" {
		in.Target = DefaultTargetLang
	}
}

// Translation is the normalized translate payload
type Translation struct {
	TranslatedText string `json:"translatedText"`
	Source         string `json:"source,omitempty"`
	Target         string `json:"target,omitempty"`
}
