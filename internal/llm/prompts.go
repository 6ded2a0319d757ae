package llm

import "strings"

const extractClaimsTemplate = `
Extract all specific claims from this text. Claims include statistics, dates, financial figures, technical specs, or factual statements.
List them as a numbered list. For example:
1. Bitcoin is trading at $42,500.
2. GDP growth for 2025 is -1.5%.

Text: {text}
`

const verifyClaimTemplate = `
Verify this claim using the search results.
Claim: {claim}
Search Results: {results}

Flag as:
- Verified: If it matches current data.
- Inaccurate: If it's close but outdated or slightly wrong (cite correct value).
- False: If no evidence or contradicted.

Explain briefly and cite sources.
`

// ExtractClaimsPrompt renders the claim extraction prompt for a document
func ExtractClaimsPrompt(text string) string {
	return render(extractClaimsTemplate, "{text}", text)
}

// VerifyClaimPrompt renders the verification prompt for one claim and its search results
func VerifyClaimPrompt(claim, results string) string {
	return render(verifyClaimTemplate, "{claim}", claim, "{results}", results)
}

// render substitutes placeholders in a single pass so that document text
// containing "{claim}" or similar is never expanded twice.
func render(template string, oldnew ...string) string {
	return strings.NewReplacer(oldnew...).Replace(template)
}
