package telegram

import (
	"fmt"
)

// FormatAnomaly renders a conflict anomaly as a Markdown message.
func FormatAnomaly(kind, key, field, stored, incoming string) string {
	return fmt.Sprintf("⚠️ *Data quality anomaly*\nkind: `%s`\nkey: `%s`\nfield: `%s`\nstored: `%s`\nincoming: `%s`",
		kind, key, field, stored, incoming)
}
