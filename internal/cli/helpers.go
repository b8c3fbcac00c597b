package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/workbench/internal/session"
	"github.com/mesh-intelligence/workbench/pkg/types"
)

// parseID parses a positive numeric entity id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, arg)
	}
	return id, nil
}

// resolveProfile maps a profile argument to an id. The argument is tried as
// a profile name first and then as a numeric id.
func resolveProfile(ctx context.Context, sess *session.Session, arg string) (int64, error) {
	id, err := sess.Store().Profiles().FindProfileByName(ctx, arg)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return 0, err
	}
	if n, perr := parseID(arg); perr == nil {
		return n, nil
	}
	return 0, fmt.Errorf("profile %q: %w", arg, types.ErrNotFound)
}

// readProfileFile decodes a profile document. Files ending in .json are
// JSON; anything else, including "-" for stdin, is read as YAML.
func readProfileFile(path string, stdin io.Reader) (*types.Profile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	var p types.Profile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", types.ErrValidation, path, err)
	}
	return &p, nil
}

// validationMessage renders a validation error the way the forms report it.
func validationMessage(err error) (string, bool) {
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		return "", false
	}
	var b strings.Builder
	if len(ve.Missing) > 0 {
		b.WriteString("Please fill in all mandatory fields:\n")
		for _, f := range ve.Missing {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}
	if len(ve.Invalid) > 0 {
		b.WriteString("These fields are not valid:\n")
		for _, f := range ve.Invalid {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}
	return strings.TrimRight(b.String(), "\n"), true
}
