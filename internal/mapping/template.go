package mapping

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// TempRuleFile is the working copy of the rule template with the CSV
// source substituted in. Invocations run sequentially, so a single
// well-known name in the working directory is safe to reuse.
const TempRuleFile = "tmp_mapping.rml.ttl"

// csvPlaceholder marks where the rule template expects the CSV path.
const csvPlaceholder = "{csv_file_path}"

// ErrPlaceholderMissing is returned when a rule template has no CSV placeholder
var ErrPlaceholderMissing = errors.New("rule template contains no {csv_file_path} placeholder")

// writeRuleFile reads the rule template, substitutes the CSV path for
// the placeholder, and writes the result to TempRuleFile.
func writeRuleFile(templatePath, csvPath string) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read rule template: %w", err)
	}

	content := string(data)
	if !strings.Contains(content, csvPlaceholder) {
		return fmt.Errorf("%w: %s", ErrPlaceholderMissing, templatePath)
	}

	content = strings.ReplaceAll(content, csvPlaceholder, csvPath)

	if err := os.WriteFile(TempRuleFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write rule file: %w", err)
	}

	return nil
}
