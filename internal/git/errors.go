package git

import (
	stderrors "errors"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, path string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	category, message := errors.CategoryGit, "git operation failed"
	switch {
	case stderrors.Is(err, gogit.ErrRepositoryNotExists):
		message = "not inside a git work tree"
	case stderrors.Is(err, gogit.ErrIsBareRepository):
		message = "repository has no work tree"
	case strings.Contains(strings.ToLower(err.Error()), "permission denied"):
		category, message = errors.CategoryFileSystem, "cannot read git metadata"
	}
	return errors.WrapError(err, category, message).
		WithContext("op", op).
		WithContext("path", path).
		Build()
}
