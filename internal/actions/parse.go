package actions

import (
	"encoding/json"
	"regexp"
	"strings"
)

var directivePattern = regexp.MustCompile("(?s)```action\\s*(\\{.*?\\})\\s*```")

// ExtractDirective splits an assistant reply into the text shown to the user
// and the embedded action directive, if any. The directive is a single
// fenced ```action block holding one JSON object, always emitted by the
// reasoning service as the suffix of its reply.
//
// When the block's JSON does not parse, the directive is dropped and the
// reply is returned untouched, block included: stripping a block we could
// not understand would hide content from the user.
func ExtractDirective(reply string) (displayText string, raw map[string]any) {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return "", nil
	}

	matches := directivePattern.FindStringSubmatch(trimmed)
	if len(matches) < 2 {
		return trimmed, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(matches[1]), &decoded); err != nil {
		return trimmed, nil
	}

	clean := strings.TrimSpace(strings.Replace(trimmed, matches[0], "", 1))
	return clean, decoded
}
