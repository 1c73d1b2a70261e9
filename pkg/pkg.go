//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the re0 module embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories.
	Name = "re0"
	// Description is a one-line summary used in help output.
	Description = "Parser and formatter for the bilingual re0 configuration language"
	// Extension is the file name extension of re0 source files.
	Extension = ".re0"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
