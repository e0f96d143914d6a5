package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/ambassador/internal/core/errs"
)

// entityPrefixes maps entity types to their expected ID prefixes
var entityPrefixes = map[string]string{
	"person":     "AMB",
	"engagement": "ENG",
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// validateEntityID checks if an ID has the correct prefix format.
// Returns an error with a helpful message if the ID appears to be a short ID.
func validateEntityID(id, entityType string) error {
	if id == "" {
		return nil // Empty is OK, let other validation handle required fields
	}

	prefix, ok := entityPrefixes[entityType]
	if !ok {
		return nil
	}

	expectedPattern := prefix + "-"
	if strings.HasPrefix(id, expectedPattern) {
		return nil
	}

	if digitsOnly.MatchString(id) {
		n, _ := strconv.Atoi(id)
		return errs.NewValidation(fmt.Sprintf("invalid %s ID '%s'. Use full ID format: %s-%03d", entityType, id, prefix, n))
	}

	if strings.HasPrefix(strings.ToUpper(id), expectedPattern) {
		return errs.NewValidation(fmt.Sprintf("invalid %s ID '%s'. IDs are case-sensitive, use: %s", entityType, id, strings.ToUpper(id)))
	}

	return errs.NewValidation(fmt.Sprintf("invalid %s ID '%s'. Expected format: %s-xxx", entityType, id, prefix))
}

// validateEntityIDs checks every ID in ids.
func validateEntityIDs(ids []string, entityType string) error {
	for _, id := range ids {
		if err := validateEntityID(id, entityType); err != nil {
			return err
		}
	}
	return nil
}
