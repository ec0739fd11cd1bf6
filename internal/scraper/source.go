package scraper

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSource is returned by ParseSource for names outside the supported set
var ErrUnknownSource = errors.New("unsupported source")

// Source identifies one of the supported listing sites
type Source string

const (
	SourceMagicBricks     Source = "magicbricks"
	SourceNinetyNineAcres Source = "99acres"
	SourceHousing         Source = "housing"
)

// Sources lists every supported source in wire order A, B, C
var Sources = []Source{SourceMagicBricks, SourceNinetyNineAcres, SourceHousing}

var sourceAliases = map[string]Source{
	"a":           SourceMagicBricks,
	"magicbricks": SourceMagicBricks,
	"b":           SourceNinetyNineAcres,
	"99acres":     SourceNinetyNineAcres,
	"c":           SourceHousing,
	"housing":     SourceHousing,
	"housing.com": SourceHousing,
}

// ParseSource accepts the letter (A, B, C) or the site name, case-insensitively.
func ParseSource(name string) (Source, error) {
	if s, ok := sourceAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

func (s Source) String() string {
	return string(s)
}
