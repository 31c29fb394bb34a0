package object

import (
	"fmt"
	"path"

	"github.com/google/uuid"

	"resume-builder/internal/shared/util"
)

// NewKey builds "<hashed owner>/<random id>_<sanitized name>".
func NewKey(owner, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashOwner(owner), uuid.NewString()+"_"+name), nil
}
