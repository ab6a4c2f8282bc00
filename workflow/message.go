package workflow

import (
	"path"
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"

	perrors "github.com/input-output-hk/daily-contributor/errors"
)

// DigestMessage returns the commit message for a digest at relPath.
func DigestMessage(relPath string) string {
	return "feat: add " + path.Base(relPath)
}

// ArchiveMessage returns the commit message for a log archive made at ts.
func ArchiveMessage(ts string) string {
	return "chore: update logs " + ts
}

// ValidateMessage checks that msg is a Conventional Commit using one of the
// conventional types (feat, fix, chore, ...).
func ValidateMessage(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return perrors.New(perrors.CodeInvalidInput, "commit message cannot be empty")
	}

	m := parser.NewMachine(conventionalcommits.WithTypes(conventionalcommits.TypesConventional))
	if _, err := m.Parse([]byte(msg)); err != nil {
		return perrors.WrapWithContext(err, perrors.CodeInvalidInput, "commit message is not a conventional commit",
			map[string]interface{}{"message": msg})
	}

	return nil
}
