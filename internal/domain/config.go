package domain

// KeyPrefix namespaces every key leadex writes to a shared key-value store.
const KeyPrefix = "leadex:"

// Hardcoded index names probed after the configured ones.
var DefaultIndices = []string{"leads", "leads_merged"}

// Export batch size bounds.
const (
	MinExportBatch     = 100
	MaxExportBatch     = 5000
	DefaultExportBatch = 1000
)

// ClampBatch bounds an export scroll batch size. Non-positive values take the default.
func ClampBatch(n int) int {
	if n <= 0 {
		return DefaultExportBatch
	}
	return min(max(n, MinExportBatch), MaxExportBatch)
}
