package tinylang

import (
	"io"
)

// Compile runs the lexer, the parser and the code generator over source.
func Compile(file string, source io.Reader, config Config) (string, error) {
	content, err := io.ReadAll(source)
	if err != nil {
		return "", err
	}
	stmts, err := NewImporter().ParseSource(file, content)
	if err != nil {
		return "", err
	}
	return Generate(stmts, config)
}

// CompileFile compiles the file at path.
func CompileFile(path string, config Config) (string, error) {
	stmts, err := NewImporter().ParseFile(path)
	if err != nil {
		return "", err
	}
	return Generate(stmts, config)
}
