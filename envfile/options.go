// Copyright (c) 2025 BVK Chaitanya

package envfile

import (
	"fmt"
	"os"
	"regexp"
)

type Option interface {
	apply(*options) error
}

type optionFunc func(*options) error

func (v optionFunc) apply(opts *options) error {
	return v(opts)
}

var nameRe = regexp.MustCompile("^[a-zA-Z][0-9a-zA-Z_]*$")

// SearchCurrentDir option makes UpdateEnv look for the environment file in
// the current directory. When the input parameter is true, the search also
// scans ancestor directories up to the root directory.
func SearchCurrentDir(searchParentDirs bool) Option {
	return optionFunc(func(opts *options) error {
		opts.searchCurrentDirectory = true
		opts.scanParentDirectories = searchParentDirs
		return nil
	})
}

// VariableNamePrefix option adds the input prefix to all variable names
// defined in the env file.
func VariableNamePrefix(prefix string) Option {
	return optionFunc(func(opts *options) error {
		if !nameRe.MatchString(prefix) {
			return fmt.Errorf("variable name prefix has invalid characters: %w", os.ErrInvalid)
		}
		opts.variableNamePrefix = prefix
		return nil
	})
}

// OverwriteIfExists option chooses whether an environment variable that
// already has a non-empty value is replaced with the env file value.
func OverwriteIfExists(overwrite bool) Option {
	return optionFunc(func(opts *options) error {
		opts.overwriteIfExists = overwrite
		return nil
	})
}
