package tinylang

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Importer reads, lexes and parses source files, inlining imports eagerly.
// All imported statements share one namespace.
type Importer struct {
	ReadFile func(name string) ([]byte, error)

	stack []importing
}

type importing struct {
	key  string
	path string
}

func NewImporter() *Importer {
	return &Importer{
		ReadFile: os.ReadFile,
	}
}

// ParseFile parses the file at path. Paths are resolved against the working directory.
func (i *Importer) ParseFile(path string) ([]Node, error) {
	content, err := i.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tokens, err := Lex(path, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return i.ParseTokens(path, tokens)
}

// ParseTokens parses the tokens of the root file at path.
func (i *Importer) ParseTokens(path string, tokens []Token) ([]Node, error) {
	pop := i.push(path)
	defer pop()
	return NewParser(path, tokens, i).Parse()
}

// ParseSource parses an in-memory source. Imports inside it go through the importer.
func (i *Importer) ParseSource(name string, content []byte) ([]Node, error) {
	tokens, err := Lex(name, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return NewParser(name, tokens, i).Parse()
}

func (i *Importer) importFile(path Token) ([]Node, error) {
	key := importKey(path.Literal)
	for idx, entry := range i.stack {
		if entry.key != key {
			continue
		}
		var chain []string
		for _, e := range i.stack[idx:] {
			chain = append(chain, e.path)
		}
		chain = append(chain, path.Literal)
		return nil, errorf(ErrImport, path.Location, "import cycle: %s", strings.Join(chain, " -> "))
	}

	content, err := i.ReadFile(path.Literal)
	if err != nil {
		return nil, errorf(ErrImport, path.Location, "cannot import %q: %v", path.Literal, err)
	}
	pop := i.push(path.Literal)
	defer pop()
	return i.ParseSource(path.Literal, content)
}

func (i *Importer) push(path string) func() {
	i.stack = append(i.stack, importing{
		key:  importKey(path),
		path: path,
	})
	return func() {
		i.stack = i.stack[:len(i.stack)-1]
	}
}

func importKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
