package domain

import "strings"

// FieldDescriptor describes one input the onboarding form must collect.
// Descriptors are derived from the server-declared template rather than
// hand-written per provider; the form renderer iterates them generically.
type FieldDescriptor struct {
	Name      string       `json:"name"`
	Label     string       `json:"label"`
	Required  bool         `json:"required"`
	Sensitive bool         `json:"sensitive"`
	Methods   []AuthMethod `json:"methods"`
}

// OAuth client fields collected on the OAuth path regardless of template.
const (
	FieldClientID     = "client_id"
	FieldClientSecret = "client_secret"
)

// sensitiveHints marks field names that should be masked in the UI.
var sensitiveHints = []string{"secret", "token", "password", "key", "credential"}

func isSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range sensitiveHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// fieldLabel turns a wire field name into a display label.
// "apiKey" and "api_key" both become "Api Key".
func fieldLabel(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteByte(' ')
			prevLower = false
		case r >= 'A' && r <= 'Z' && prevLower:
			b.WriteByte(' ')
			b.WriteRune(r)
			prevLower = false
		default:
			prevLower = r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FieldsFor derives the descriptor list for a template and auth method.
// The credentials path uses the template's declared fields; the OAuth path
// always collects the client ID and secret.
func FieldsFor(t *IntegrationTemplate, method AuthMethod) []FieldDescriptor {
	if method == AuthMethodOAuth {
		return []FieldDescriptor{
			{
				Name:     FieldClientID,
				Label:    "Client ID",
				Required: true,
				Methods:  []AuthMethod{AuthMethodOAuth},
			},
			{
				Name:      FieldClientSecret,
				Label:     "Client Secret",
				Required:  true,
				Sensitive: true,
				Methods:   []AuthMethod{AuthMethodOAuth},
			},
		}
	}

	fields := make([]FieldDescriptor, 0, len(t.RequiredCredentialFields)+len(t.OptionalCredentialFields))
	for _, name := range t.RequiredCredentialFields {
		fields = append(fields, FieldDescriptor{
			Name:      name,
			Label:     fieldLabel(name),
			Required:  true,
			Sensitive: isSensitiveField(name),
			Methods:   []AuthMethod{AuthMethodCredentials},
		})
	}
	for _, name := range t.OptionalCredentialFields {
		fields = append(fields, FieldDescriptor{
			Name:      name,
			Label:     fieldLabel(name),
			Sensitive: isSensitiveField(name),
			Methods:   []AuthMethod{AuthMethodCredentials},
		})
	}
	return fields
}
