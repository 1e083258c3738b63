package configcheck

// RuleInfo describes a validator rule.
type RuleInfo struct {
	ID          string
	Description string
}

// Rules lists the validator's rules in check-stage order.
func Rules() []RuleInfo {
	return []RuleInfo{
		{RuleSyntax, "File must be well-formed YAML"},
		{RuleEmpty, "File must contain a document"},
		{RuleMultiDocument, "Only the first document of a multi-document file is validated"},
		{RuleMissingKey, "Keys required by the file's kind must be present"},
		{RuleType, "Keys must hold values of the expected type"},
		{RuleEmptyValue, "Required names must not be empty"},
		{RuleThemeName, "A theme given as a mapping should set 'name'"},
		{RuleServiceSource, "Compose services must set 'image' or 'build'"},
		{RuleComposeVersion, "Compose files should declare 'version'"},
		{RuleNavReference, "Navigation entries must reference existing documents"},
	}
}
