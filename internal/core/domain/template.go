package domain

// Category groups integration templates in the catalog UI.
type Category string

const (
	CategoryIssueTracking Category = "issue_tracking"
	CategoryCRM           Category = "crm"
	CategoryChat          Category = "chat"
	CategoryCloud         Category = "cloud"
	CategoryStorage       Category = "storage"
	CategoryAnalytics     Category = "analytics"
	CategoryOther         Category = "other"
)

// categoryAliases maps raw category strings from the template endpoint to
// the fixed taxonomy. The backend has shipped several spellings over time.
var categoryAliases = map[string]Category{
	"issue_tracking":  CategoryIssueTracking,
	"issue-tracking":  CategoryIssueTracking,
	"issues":          CategoryIssueTracking,
	"project_mgmt":    CategoryIssueTracking,
	"crm":             CategoryCRM,
	"sales":           CategoryCRM,
	"chat":            CategoryChat,
	"communication":   CategoryChat,
	"messaging":       CategoryChat,
	"cloud":           CategoryCloud,
	"cloud_provider":  CategoryCloud,
	"infrastructure":  CategoryCloud,
	"storage":         CategoryStorage,
	"file_storage":    CategoryStorage,
	"analytics":       CategoryAnalytics,
	"reporting":       CategoryAnalytics,
}

// ResolveCategory maps a raw category string onto the fixed taxonomy.
// Unknown categories fall into CategoryOther rather than failing the load.
func ResolveCategory(raw string) Category {
	if c, ok := categoryAliases[raw]; ok {
		return c
	}
	return CategoryOther
}

// IntegrationTemplate describes one connectable external-system type.
// Templates are fetched from the backend catalog and never mutated.
type IntegrationTemplate struct {
	TypeID      string   `json:"type_id"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`

	// RequiredCredentialFields and OptionalCredentialFields are ordered:
	// the form renderer iterates them as-is.
	RequiredCredentialFields []string `json:"required_credential_fields"`
	OptionalCredentialFields []string `json:"optional_credential_fields,omitempty"`

	// DefaultSettings is an opaque configuration map merged into any
	// integration created from this template.
	DefaultSettings map[string]any `json:"default_settings,omitempty"`

	DocumentationURL string `json:"documentation_url,omitempty"`
}

// DeclaresField reports whether the template declares the named credential
// field, required or optional.
func (t *IntegrationTemplate) DeclaresField(name string) bool {
	for _, f := range t.RequiredCredentialFields {
		if f == name {
			return true
		}
	}
	for _, f := range t.OptionalCredentialFields {
		if f == name {
			return true
		}
	}
	return false
}

// IsRequiredField reports whether the named field is required.
func (t *IntegrationTemplate) IsRequiredField(name string) bool {
	for _, f := range t.RequiredCredentialFields {
		if f == name {
			return true
		}
	}
	return false
}
