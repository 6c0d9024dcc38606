package util

import (
	"regexp"
	"strings"
)

// thinkBlockPatterns match the reasoning blocks some local models (deepseek-r1,
// qwen3 and friends) emit ahead of the answer. Their content routinely
// contains braces, which would widen the reply's object span.
var thinkBlockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<think(?:ing)?>([\s\S]*?)</think(?:ing)?>`),
	regexp.MustCompile(`(?i)<思考>([\s\S]*?)</思考>`),
}

// ContainsThinkTags checks if the response contains think/reasoning tags
func ContainsThinkTags(response string) bool {
	for _, re := range thinkBlockPatterns {
		if re.MatchString(response) {
			return true
		}
	}
	return false
}

// SplitThinkAndAnswer separates reasoning blocks from the final answer.
// The reasoning blocks are joined with blank lines; the answer is the
// response with every block removed and surrounding whitespace trimmed.
func SplitThinkAndAnswer(response string) (reasoning, answer string) {
	var blocks []string
	answer = response
	for _, re := range thinkBlockPatterns {
		for _, match := range re.FindAllStringSubmatch(answer, -1) {
			blocks = append(blocks, strings.TrimSpace(match[1]))
		}
		answer = re.ReplaceAllString(answer, "")
	}
	return strings.Join(blocks, "\n\n"), strings.TrimSpace(answer)
}
