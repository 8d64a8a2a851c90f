// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/models"
	"fjacquet/finrecon/internal/remote"
	"fjacquet/finrecon/internal/store"
)

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// JoinArgs joins positional arguments into one free-text value.
func JoinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// Hint returns a one-line remedy for errors the user can act on, or "".
func Hint(err error) string {
	var (
		parseErr  *finerror.ParseError
		formatErr *finerror.FormatError
		valErr    *finerror.ValidationError
		askErr    *remote.AskError
		transErr  *remote.TransportError
	)

	switch {
	case errors.As(err, &askErr) && askErr.InvalidAPIKey():
		return "The assistant's AI key is missing or invalid. Set a valid key on the API server and retry."
	case errors.As(err, &parseErr), errors.As(err, &formatErr):
		return "Check the file: " + finerror.ExpectedColumnsHint + "."
	case errors.As(err, &valErr) && valErr.Field == "category":
		tags := make([]string, 0, len(models.AllCategoryTags))
		for _, t := range models.AllCategoryTags {
			tags = append(tags, string(t))
		}
		return "Use one of: " + strings.Join(tags, ", ") + "."
	case errors.As(err, &valErr) && valErr.Field == "collection":
		return "Collections: " + strings.Join(store.Collections, ", ") + "."
	case errors.Is(err, store.ErrNotFound):
		return "No document with that id. List the collection to see the ids."
	case errors.As(err, &transErr):
		return "The API server could not be reached. Check remote.base_url."
	}
	return ""
}

// Fail decorates err with its hint, if any.
func Fail(err error) error {
	if err == nil {
		return nil
	}
	if h := Hint(err); h != "" {
		return fmt.Errorf("%w\n%s", err, h)
	}
	return err
}
