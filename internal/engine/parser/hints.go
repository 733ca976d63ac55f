package parser

// hintDatabase maps bare CWE numbers to concise, actionable fix hints.
// Keys match Vulnerability.CWE after normalization.
var hintDatabase = map[string]string{
	// --- Bounds ---
	"119": "Check every index and length against the buffer size before access.",
	"120": "Replace strcpy/strcat/gets with bounded calls (snprintf, strlcpy) sized from the destination.",
	"121": "Size stack buffers from the input or switch to a heap allocation with an explicit length.",
	"122": "Compute heap allocation sizes once and pass that size to every write into the buffer.",
	"125": "Validate offsets against the buffer length before reading.",
	"787": "Validate offsets against the buffer length before writing.",
	"170": "Terminate strings explicitly after strncpy or read; do not assume a NUL is present.",
	"193": "Re-check loop bounds: use < size, not <= size, when indexing.",

	// --- Lifetime ---
	"416": "Set pointers to NULL after free and keep a single owner responsible for release.",
	"415": "Free each allocation exactly once; NULL the pointer after free.",
	"401": "Release allocations on every exit path, including error returns.",
	"457": "Initialize variables at declaration, especially buffers passed to other functions.",
	"476": "Check allocation and lookup results for NULL before dereferencing.",
	"562": "Do not return pointers to stack storage; allocate or take a caller buffer.",
	"825": "Track pointer validity explicitly; do not reuse pointers after the storage is released.",

	// --- Arithmetic ---
	"190": "Check for overflow before multiplying sizes; prefer calloc or a checked multiply.",
	"191": "Check operands before subtracting unsigned lengths.",
	"681": "Avoid narrowing size_t to int when computing lengths.",
	"789": "Cap attacker-controlled sizes before allocating.",

	// --- APIs ---
	"134": "Never pass untrusted data as a format string; use \"%s\" with the data as an argument.",
	"242": "Remove gets and similar inherently unsafe functions; use fgets with the buffer size.",
	"676": "Replace the potentially dangerous function with its bounded counterpart.",
}

// Hint returns the fix hint for a bare CWE number, or "" when none is known.
func Hint(cwe string) string {
	return hintDatabase[cwe]
}

// EnrichHints populates the Hint field of each Vulnerability from
// the static hint database. Pre-existing hints are preserved.
func EnrichHints(vulns []Vulnerability) []Vulnerability {
	for i := range vulns {
		if vulns[i].Hint != "" {
			continue
		}
		vulns[i].Hint = Hint(vulns[i].CWE)
	}
	return vulns
}
