package llm

import (
	"strings"
)

// CodePlaceholder marks where the user's source is inserted into the prompt.
const CodePlaceholder = "<USER_CODE>"

// SystemPrompt is sent as the system message by providers that support one.
const SystemPrompt = "You are a helpful assistant specialized in memory safety analysis."

const promptTemplate = `You are a memory-safety analysis assistant. Analyze the following C code for memory-safety vulnerabilities (buffer overflows, use-after-free, double free, NULL dereference, off-by-one, unchecked allocation, integer overflow leading to memory corruption).

Return ONLY valid JSON with this structure and no other text:
{
  "summary": "One paragraph summary",
  "safety_score": 0-100,
  "vulnerabilities": [{"type": "...", "severity": "Low|Medium|High|Critical", "cwe": 123, "explanation": "...", "insecure_snippet_start_line": 1, "insecure_snippet_end_line": 2, "pattern": "..."}],
  "suggested_rust": [{"rust_snippet": "...", "why_safe": "..."}]
}

Rules:
- Line numbers are 1-based and refer to the code exactly as given below.
- "pattern" must be a short literal substring copied from the vulnerable line.
- If the code is safe, return an empty "vulnerabilities" list.
%FILE%
C code:
<USER_CODE>
`

// BuildPrompt constructs the analysis prompt for a C source.
// filename is optional and only used as a hint to the model.
func BuildPrompt(filename, code string) string {
	file := ""
	if filename != "" {
		file = "\nFile: " + filename + "\n"
	}
	return strings.NewReplacer("%FILE%", file, CodePlaceholder, code).Replace(promptTemplate)
}
