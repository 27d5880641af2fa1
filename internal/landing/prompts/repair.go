package prompts

import "strings"

// RepairUser extends a built user prompt with the previous output and
// the itemized validation errors to fix. The model is told to change
// only what the errors require.
func RepairUser(user string, previousOutputJSON string, validationErrors []string) string {
	if len(validationErrors) == 0 {
		return user
	}

	var b strings.Builder
	b.WriteString(user)

	if strings.TrimSpace(previousOutputJSON) != "" {
		b.WriteString("\n\nPREVIOUS_OUTPUT (fix this, do not start over):\n")
		b.WriteString(previousOutputJSON)
	}

	b.WriteString("\n\nVALIDATION_ERRORS_TO_FIX:\n- ")
	b.WriteString(strings.Join(validationErrors, "\n- "))
	b.WriteString("\n\nRegenerate the full JSON document. Keep everything that was not flagged; change only what the errors above require.")

	return b.String()
}
