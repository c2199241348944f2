package dispatchy

import (
	"github.com/projectdiscovery/fasttemplate"
)

// Phrase placeholder markers
const (
	PhraseOpenMarker  = "{{"
	PhraseCloseMarker = "}}"
)

// Spoken-response phrase templates
const (
	PhraseWeatherCurrent = "it is currently {{description}} and {{temp}} degrees in {{city}}, feels like {{feels_like}}"
	PhraseMemoryList     = "{{key}} is {{items}}"
	PhraseMemoryValue    = "{{key}} is {{value}}"
)

// RenderPhrase fills {{name}} placeholders in a spoken-response phrase.
// Unknown placeholders are kept verbatim.
func RenderPhrase(phrase string, vars map[string]string) string {
	values := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		values[k] = v
	}
	return fasttemplate.ExecuteStringStd(phrase, PhraseOpenMarker, PhraseCloseMarker, values)
}
