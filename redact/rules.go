// Package redact strips credential-like secrets and contextual PII from free
// text before it is written into exported documents.
package redact

import "regexp"

// Rule is one entry of the ordered redaction table. Replacement may reference
// capture groups of Pattern ($1, ${name}); Expand, when set, takes precedence
// and receives the submatches of each hit.
type Rule struct {
	Name        string
	Kind        string // "secret" or "pii"
	Pattern     *regexp.Regexp
	Replacement string
	Expand      func(groups []string) string
}

// Built-in rules. The order of SecretRules followed by PIIRules is the order
// of application and must be kept: the JWT rule has to see tokens before the
// looser token and key rules, and every replacement is a bracketed
// placeholder that no value class can match, so a second pass is a no-op.
var (
	jwtRule = Rule{
		Name:        "jwt",
		Kind:        "secret",
		Pattern:     regexp.MustCompile(`\beyJ[a-zA-Z0-9_-]{10,}\.eyJ[a-zA-Z0-9_-]{10,}\.[a-zA-Z0-9_-]{10,}`),
		Replacement: "[REDACTED_JWT_TOKEN]",
	}

	tokenRule = Rule{
		Name:    "token",
		Kind:    "secret",
		Pattern: regexp.MustCompile(`(?i)\b(access_token|bearer|token)([\s=]+)[a-zA-Z0-9._-]{20,}`),
		Expand: func(g []string) string {
			sep := "="
			if g[2] == " " {
				sep = " "
			}
			return g[1] + sep + "[REDACTED_TOKEN]"
		},
	}

	apiKeyRules = []Rule{
		{Name: "api_key", Kind: "secret", Pattern: regexp.MustCompile(`\b(?:sk|pk)[-_][a-zA-Z0-9_-]{20,}`), Replacement: "[REDACTED_API_KEY]"},
		{Name: "api_key", Kind: "secret", Pattern: regexp.MustCompile(`\bAIza[a-zA-Z0-9_-]{35}`), Replacement: "[REDACTED_API_KEY]"},
		{Name: "api_key", Kind: "secret", Pattern: regexp.MustCompile(`\bAKIA[A-Z0-9]{16}`), Replacement: "[REDACTED_API_KEY]"},
		{Name: "api_key", Kind: "secret", Pattern: regexp.MustCompile(`\b[a-f0-9]{40}\b`), Replacement: "[REDACTED_API_KEY]"},
		{Name: "api_key", Kind: "secret", Pattern: regexp.MustCompile(`\bgh[posr]_[a-zA-Z0-9]{36,}`), Replacement: "[REDACTED_API_KEY]"},
	}

	privateKeyRule = Rule{
		Name:        "private_key",
		Kind:        "secret",
		Pattern:     regexp.MustCompile(`-----BEGIN\s+(?:RSA\s+)?PRIVATE\s+KEY-----[\s\S]*?-----END\s+(?:RSA\s+)?PRIVATE\s+KEY-----`),
		Replacement: "[REDACTED_PRIVATE_KEY]",
	}

	awsSecretRule = Rule{
		Name:        "aws_secret",
		Kind:        "secret",
		Pattern:     regexp.MustCompile(`(?i)(?:aws_secret_access_key|secret.?key)[\s:=]+[a-zA-Z0-9/+=]{40}`),
		Replacement: "aws_secret_access_key=[REDACTED_AWS_SECRET]",
	}

	connectionStringRule = Rule{
		Name:        "connection_string",
		Kind:        "secret",
		Pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^\s:/@\[\]]+:[^\s@\[\]]+@`),
		Replacement: "${1}://[REDACTED_USER]:[REDACTED_PASSWORD]@",
	}

	passwordRule = Rule{
		Name:        "password",
		Kind:        "secret",
		Pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd|pass)[\s:=]+[^\s'"<>\[\]]{6,}`),
		Replacement: "${1}=[REDACTED_PASSWORD]",
	}

	emailRule = Rule{
		Name:        "email",
		Kind:        "pii",
		Pattern:     regexp.MustCompile(`(?i)\b(email|username|user)[\s:=]+[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		Replacement: "${1}=[REDACTED_EMAIL]",
	}

	cardNumberRule = Rule{
		Name:        "card_number",
		Kind:        "pii",
		Pattern:     regexp.MustCompile(`\b(?:\d{4}[\s-]?){3}\d{1,7}\b`),
		Replacement: "[REDACTED_CARD_NUMBER]",
	}
)

// SecretRules returns the built-in secret rules in application order.
func SecretRules() []Rule {
	rules := []Rule{jwtRule, tokenRule}
	rules = append(rules, apiKeyRules...)
	return append(rules, privateKeyRule, awsSecretRule, connectionStringRule, passwordRule)
}

// PIIRules returns the built-in PII rules in application order.
func PIIRules() []Rule {
	return []Rule{emailRule, cardNumberRule}
}
