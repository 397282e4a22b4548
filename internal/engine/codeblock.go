package engine

import "regexp"

// fencedBlockPattern matches a fenced code block with an optional language
// tag, e.g. "```js\n...\n```" or "```\n...\n```".
var fencedBlockPattern = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*\\n?(.*?)```")

// ExtractLastCodeBlock scans content for fenced ``` code blocks and returns
// the body of the last one found. When multiple blocks are present, "last
// block wins" (§4.5, §9: "the design fixes this as 'last block wins' ...
// documented as non-negotiable for compatibility with the system prompt's
// contract to the model"). Returns ok=false when no fenced block is found.
func ExtractLastCodeBlock(content string) (code string, ok bool) {
	matches := fencedBlockPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", false
	}
	last := matches[len(matches)-1]
	return last[1], true
}
