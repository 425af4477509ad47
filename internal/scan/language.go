package scan

import (
	"path"
	"strings"

	"frscan/internal/rules"
)

// extLanguage maps lowercased file extensions (without the dot) to language tags.
var extLanguage = map[string]string{
	"py":   rules.LangPython,
	"js":   rules.LangJavaScript,
	"java": rules.LangJava,
	"c":    rules.LangC,
	"cpp":  rules.LangCPP,
	"cc":   rules.LangCPP,
	"cxx":  rules.LangCPP,
	"cs":   rules.LangCSharp,
	"go":   rules.LangGo,
	"rs":   rules.LangRust,
	"ts":   rules.LangTypeScript,
	"html": rules.LangHTML,
	"css":  rules.LangCSS,
	"sql":  rules.LangSQL,
	"ex":   rules.LangElixir,
	"exs":  rules.LangElixir,
	"json": rules.LangJSON,
	"node": rules.LangNode,
}

// LanguageFor returns the language tag for name's extension, or "" when the
// extension is not recognized.
func LanguageFor(name string) string {
	ext := strings.TrimPrefix(path.Ext(strings.ReplaceAll(name, "\\", "/")), ".")
	return extLanguage[strings.ToLower(ext)]
}
